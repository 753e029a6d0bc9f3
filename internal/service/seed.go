package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mealmajor/mealmajor/backend/internal/models"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// KitchenEmail owns every default recipe.
const KitchenEmail = "defaults@mealmajor.app"

// SeedResult summarizes a seeding run
type SeedResult struct {
	OwnerID uint
	Created int
	Updated int
}

// SeedService loads the default recipe set
type SeedService struct {
	db     *gorm.DB
	cache  OptionCache
	logger *zap.Logger
}

var _ ISeedService = (*SeedService)(nil)

// NewSeedService creates a SeedService. cache may be nil; when set, the
// cached option catalogs are dropped after every successful seed.
func NewSeedService(db *gorm.DB, cache OptionCache, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{db: db, cache: cache, logger: logger}
}

// Seed upserts recipes under the kitchen account in a single transaction.
// Option names are created on first reference. A recipe is matched to the
// kitchen account's lowest recipe id with the same title; newer duplicates
// are left alone. Any failure rolls back the whole run.
func (s *SeedService) Seed(ctx context.Context, recipes []types.SeedRecipe) (*SeedResult, error) {
	if len(recipes) == 0 {
		return nil, validationError("No default recipes to seed.")
	}

	result := &SeedResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownerID, err := ensureKitchenAccount(tx)
		if err != nil {
			return err
		}
		result.OwnerID = ownerID

		var dietaryNames, allergyNames []string
		for i := range recipes {
			dietaryNames = append(dietaryNames, recipes[i].DietaryOptions...)
			allergyNames = append(allergyNames, recipes[i].AllergyOptions...)
		}
		if err := ensureOptionNames(tx, CatalogDietary, dietaryNames); err != nil {
			return err
		}
		if err := ensureOptionNames(tx, CatalogAllergy, allergyNames); err != nil {
			return err
		}

		for i := range recipes {
			created, err := seedRecipe(tx, ownerID, &recipes[i])
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		err = asServiceError("failed to seed recipes", err)
		if KindOf(err) == KindInternal {
			s.logger.Error("seeding failed", zap.Error(err))
		}
		return nil, err
	}

	// new option names must show up in the catalogs
	if s.cache != nil {
		if err := s.cache.Delete(ctx, optionCatalogsCacheKey); err != nil {
			s.logger.Warn("failed to invalidate option catalogs cache", zap.Error(err))
		}
	}

	s.logger.Info("seeded default recipes",
		zap.Uint("owner_id", result.OwnerID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))
	return result, nil
}

func seedRecipe(tx *gorm.DB, ownerID uint, recipe *types.SeedRecipe) (bool, error) {
	title := strings.TrimSpace(recipe.Title)
	if title == "" {
		return false, validationError("Recipe %q has missing required fields.", "(untitled)")
	}

	dietaryIDs, err := resolveOptionNames(tx, CatalogDietary, recipe.DietaryOptions)
	if err != nil {
		return false, annotate(err, title)
	}
	allergyIDs, err := resolveOptionNames(tx, CatalogAllergy, recipe.AllergyOptions)
	if err != nil {
		return false, annotate(err, title)
	}

	in, err := normalizeRecipe(&types.RecipeRequest{
		Title:                  title,
		Ingredients:            recipe.Ingredients,
		Instructions:           recipe.Instructions,
		Cuisine:                recipe.Cuisine,
		PreparationTimeMinutes: recipe.PreparationTimeMinutes,
		CookingTimeMinutes:     recipe.CookingTimeMinutes,
		PreparationSteps:       recipe.PreparationSteps,
		Difficulty:             recipe.Difficulty,
		CostLevel:              recipe.CostLevel,
		Servings:               recipe.Servings,
		DietaryOptionIDs:       dietaryIDs,
		AllergyOptionIDs:       allergyIDs,
	})
	if err != nil {
		return false, annotate(err, title)
	}

	var existing []uint
	err = tx.Model(&models.Recipe{}).
		Where("user_id = ? AND title = ?", ownerID, title).
		Order("id").
		Limit(1).
		Pluck("id", &existing).Error
	if err != nil {
		return false, internalError("failed to look up recipe "+title, err)
	}

	var recipeID uint
	if len(existing) > 0 {
		recipeID = existing[0]
	}
	if _, err := upsertRecipe(tx, recipeID, ownerID, in); err != nil {
		return false, annotate(err, title)
	}
	return recipeID == 0, nil
}

func ensureKitchenAccount(tx *gorm.DB) (uint, error) {
	var user models.User
	err := tx.Where("email = ?", KitchenEmail).First(&user).Error
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, internalError("failed to load kitchen account", err)
	}

	// Nobody signs in as the kitchen, so its password is random.
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return 0, internalError("failed to hash kitchen password", err)
	}
	user = models.User{
		FirstName:    "MealMajor",
		LastName:     "Kitchen",
		Email:        KitchenEmail,
		PasswordHash: string(hashed),
	}
	if err := tx.Create(&user).Error; err != nil {
		return 0, internalError("failed to create kitchen account", err)
	}
	return user.ID, nil
}

// annotate prefixes a service error message with the recipe being seeded.
func annotate(err error, title string) error {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Kind != KindInternal {
		return &Error{
			Kind:    svcErr.Kind,
			Message: fmt.Sprintf("Recipe %q: %s", title, svcErr.Message),
			Err:     svcErr.Err,
		}
	}
	return err
}
