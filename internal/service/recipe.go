package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealmajor/mealmajor/backend/internal/events"
	"github.com/mealmajor/mealmajor/backend/internal/models"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

const (
	maxTextFieldLength = 255
	defaultBrowseLimit = 50
	maxBrowseLimit     = 200

	// counts and durations are stored in INTEGER columns
	maxStoredInt = math.MaxInt32
)

// RecipeService handles recipe storage and the tag links of each recipe
type RecipeService struct {
	db        *gorm.DB
	publisher events.Publisher
	logger    *zap.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService. A nil publisher drops events.
func NewRecipeService(db *gorm.DB, publisher events.Publisher, logger *zap.Logger) *RecipeService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{db: db, publisher: publisher, logger: logger}
}

// recipeInput is a trimmed and clamped recipe payload.
type recipeInput struct {
	title        string
	ingredients  string
	instructions string
	cuisine      string
	prepTime     int
	cookTime     int
	steps        int
	difficulty   int
	costLevel    int
	servings     int
	dietaryIDs   []uint
	allergyIDs   []uint
}

// clamp bounds value to [lo, hi].
func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// normalizeRecipe trims text fields, rejects missing ones and clamps numeric
// fields into range. It never touches the store.
func normalizeRecipe(req *types.RecipeRequest) (*recipeInput, error) {
	if req == nil {
		return nil, validationError("Recipe payload is required.")
	}

	in := &recipeInput{
		title:        strings.TrimSpace(req.Title),
		ingredients:  strings.TrimSpace(req.Ingredients),
		instructions: strings.TrimSpace(req.Instructions),
		cuisine:      strings.TrimSpace(req.Cuisine),
		prepTime:     clamp(req.PreparationTimeMinutes, 1, maxStoredInt),
		cookTime:     clamp(req.CookingTimeMinutes, 0, maxStoredInt),
		steps:        clamp(req.PreparationSteps, 1, maxStoredInt),
		difficulty:   clamp(req.Difficulty, 1, 5),
		costLevel:    clamp(req.CostLevel, 1, 5),
		servings:     clamp(req.Servings, 1, maxStoredInt),
		dietaryIDs:   req.DietaryOptionIDs,
		allergyIDs:   req.AllergyOptionIDs,
	}

	required := []struct {
		name  string
		value string
	}{
		{"Title", in.title},
		{"Ingredients", in.ingredients},
		{"Instructions", in.instructions},
		{"Cuisine", in.cuisine},
	}
	for _, field := range required {
		if field.value == "" {
			return nil, validationError("%s is required.", field.name)
		}
	}
	if len([]rune(in.title)) > maxTextFieldLength {
		return nil, validationError("Title must be at most %d characters.", maxTextFieldLength)
	}
	if len([]rune(in.cuisine)) > maxTextFieldLength {
		return nil, validationError("Cuisine must be at most %d characters.", maxTextFieldLength)
	}
	return in, nil
}

// upsertRecipe writes the recipe row and replaces both tag sets. recipeID 0
// inserts a new recipe owned by ownerID; otherwise the row must belong to
// ownerID. Must run inside a transaction.
func upsertRecipe(tx *gorm.DB, recipeID, ownerID uint, in *recipeInput) (uint, error) {
	dietaryIDs, err := validateOptionIDs(tx, CatalogDietary, in.dietaryIDs)
	if err != nil {
		return 0, err
	}
	allergyIDs, err := validateOptionIDs(tx, CatalogAllergy, in.allergyIDs)
	if err != nil {
		return 0, err
	}

	var recipe models.Recipe
	if recipeID != 0 {
		if err := tx.Where("id = ? AND user_id = ?", recipeID, ownerID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrRecipeNotFound
			}
			return 0, internalError("failed to load recipe", err)
		}
	} else {
		recipe.UserID = ownerID
	}

	recipe.Title = in.title
	recipe.Ingredients = in.ingredients
	recipe.Instructions = in.instructions
	recipe.Cuisine = in.cuisine
	recipe.PreparationTimeMinutes = in.prepTime
	recipe.CookingTimeMinutes = in.cookTime
	recipe.PreparationSteps = in.steps
	recipe.DifficultyRating = in.difficulty
	recipe.CostLevel = in.costLevel
	recipe.Servings = in.servings

	if recipe.ID == 0 {
		if err := tx.Create(&recipe).Error; err != nil {
			return 0, internalError("failed to create recipe", err)
		}
	} else if err := tx.Save(&recipe).Error; err != nil {
		return 0, internalError("failed to update recipe", err)
	}

	if err := deleteRecipeLinks(tx, recipe.ID); err != nil {
		return 0, err
	}
	for _, set := range []struct {
		catalog Catalog
		ids     []uint
	}{
		{CatalogDietary, dietaryIDs},
		{CatalogAllergy, allergyIDs},
	} {
		if len(set.ids) == 0 {
			continue
		}
		if err := tx.Create(set.catalog.recipeLinks(recipe.ID, set.ids)).Error; err != nil {
			return 0, internalError("failed to link "+string(set.catalog)+" options", err)
		}
	}
	return recipe.ID, nil
}

func deleteRecipeLinks(tx *gorm.DB, recipeID uint) error {
	for _, c := range []Catalog{CatalogDietary, CatalogAllergy} {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(c.recipeLinkModel()).Error; err != nil {
			return internalError("failed to clear "+string(c)+" options", err)
		}
	}
	return nil
}

// CreateRecipe stores a new recipe owned by ownerID and returns its id
func (s *RecipeService) CreateRecipe(ctx context.Context, ownerID uint, req *types.RecipeRequest) (uint, error) {
	in, err := normalizeRecipe(req)
	if err != nil {
		return 0, err
	}

	var recipeID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		recipeID, err = upsertRecipe(tx, 0, ownerID, in)
		return err
	})
	if err != nil {
		return 0, s.logInternal(asServiceError("failed to create recipe", err))
	}

	s.publish(ctx, events.RecipeCreated, recipeID, ownerID)
	return recipeID, nil
}

// UpdateRecipe fully replaces a recipe owned by editorID
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID, editorID uint, req *types.RecipeRequest) error {
	in, err := normalizeRecipe(req)
	if err != nil {
		return err
	}
	if recipeID == 0 {
		return ErrRecipeNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := upsertRecipe(tx, recipeID, editorID, in)
		return err
	})
	if err != nil {
		return s.logInternal(asServiceError("failed to update recipe", err))
	}

	s.publish(ctx, events.RecipeUpdated, recipeID, editorID)
	return nil
}

// DeleteRecipe removes a recipe owned by ownerID together with its tag links
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, ownerID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id").Where("id = ? AND user_id = ?", recipeID, ownerID).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return internalError("failed to load recipe", err)
		}
		if err := deleteRecipeLinks(tx, recipe.ID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Recipe{}, recipe.ID).Error; err != nil {
			return internalError("failed to delete recipe", err)
		}
		return nil
	})
	if err != nil {
		return s.logInternal(asServiceError("failed to delete recipe", err))
	}

	s.publish(ctx, events.RecipeDeleted, recipeID, ownerID)
	return nil
}

// GetRecipe returns the detail of a recipe owned by requesterID
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID, requesterID uint) (*types.RecipeDetail, error) {
	detail, err := s.loadDetail(ctx, recipeID, &requesterID)
	return detail, s.logInternal(err)
}

// GetBrowseRecipe returns the detail of any recipe
func (s *RecipeService) GetBrowseRecipe(ctx context.Context, recipeID uint) (*types.RecipeDetail, error) {
	detail, err := s.loadDetail(ctx, recipeID, nil)
	return detail, s.logInternal(err)
}

// ListRecipes returns the owner's recipes, most recently updated first
func (s *RecipeService) ListRecipes(ctx context.Context, ownerID uint) ([]types.RecipeSummary, error) {
	var rows []recipeRow
	err := s.db.WithContext(ctx).
		Table("recipes").
		Select(recipeColumns).
		Joins("JOIN users ON users.id = recipes.user_id").
		Where("recipes.user_id = ?", ownerID).
		Order("recipes.updated_at DESC, recipes.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, s.logInternal(internalError("failed to list recipes", err))
	}

	summaries := make([]types.RecipeSummary, len(rows))
	for i := range rows {
		summaries[i] = rows[i].summary()
	}
	return summaries, nil
}

// BrowseRecipes lists every user's recipes that match the filter
func (s *RecipeService) BrowseRecipes(ctx context.Context, filter *types.BrowseFilter) ([]types.BrowseRecipe, error) {
	if filter == nil {
		filter = &types.BrowseFilter{}
	}
	db := s.db.WithContext(ctx)

	query := db.Table("recipes").
		Select(recipeColumns).
		Joins("JOIN users ON users.id = recipes.user_id")

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + escapeLike(search) + "%"
		query = query.Where(
			"(LOWER(recipes.title) LIKE ? ESCAPE '\\' OR LOWER(recipes.cuisine) LIKE ? ESCAPE '\\' OR "+
				"LOWER(users.first_name || ' ' || users.last_name) LIKE ? ESCAPE '\\' OR LOWER(users.email) LIKE ? ESCAPE '\\')",
			like, like, like, like)
	}
	if filter.MaxPrepTime != nil {
		query = query.Where("recipes.preparation_time_minutes <= ?", *filter.MaxPrepTime)
	}
	if filter.MaxCookTime != nil {
		query = query.Where("recipes.cooking_time_minutes <= ?", *filter.MaxCookTime)
	}
	if filter.MinServings != nil {
		query = query.Where("recipes.servings >= ?", *filter.MinServings)
	}
	if filter.Difficulty != nil {
		query = query.Where("recipes.difficulty_rating = ?", *filter.Difficulty)
	}
	if filter.CostLevel != nil {
		query = query.Where("recipes.cost_level = ?", *filter.CostLevel)
	}
	for _, id := range normalizeIDs(filter.DietaryOptionIDs) {
		query = query.Where("EXISTS (SELECT 1 FROM recipe_dietary_options rdo WHERE rdo.recipe_id = recipes.id AND rdo.dietary_option_id = ?)", id)
	}
	for _, id := range normalizeIDs(filter.AllergyOptionIDs) {
		query = query.Where("EXISTS (SELECT 1 FROM recipe_allergy_options rao WHERE rao.recipe_id = recipes.id AND rao.allergy_option_id = ?)", id)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	if limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []recipeRow
	err := query.
		Order("recipes.updated_at DESC, recipes.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, s.logInternal(internalError("failed to browse recipes", err))
	}

	ids := make([]uint, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	dietary, err := tagNamesByRecipe(db, CatalogDietary, ids)
	if err != nil {
		return nil, s.logInternal(err)
	}
	allergy, err := tagNamesByRecipe(db, CatalogAllergy, ids)
	if err != nil {
		return nil, s.logInternal(err)
	}

	results := make([]types.BrowseRecipe, len(rows))
	for i := range rows {
		row := &rows[i]
		results[i] = types.BrowseRecipe{
			RecipeSummary:  row.summary(),
			AuthorName:     row.authorName(),
			AuthorEmail:    row.AuthorEmail,
			DietaryOptions: nonNil(dietary[row.ID]),
			AllergyOptions: nonNil(allergy[row.ID]),
		}
	}
	return results, nil
}

func (s *RecipeService) loadDetail(ctx context.Context, recipeID uint, ownerID *uint) (*types.RecipeDetail, error) {
	db := s.db.WithContext(ctx)

	query := db.Table("recipes").
		Select(recipeColumns).
		Joins("JOIN users ON users.id = recipes.user_id").
		Where("recipes.id = ?", recipeID)
	if ownerID != nil {
		query = query.Where("recipes.user_id = ?", *ownerID)
	}

	var rows []recipeRow
	if err := query.Limit(1).Scan(&rows).Error; err != nil {
		return nil, internalError("failed to load recipe", err)
	}
	if len(rows) == 0 {
		return nil, ErrRecipeNotFound
	}
	row := rows[0]

	dietaryIDs, err := linkedOptionIDs(db, CatalogDietary, row.ID)
	if err != nil {
		return nil, err
	}
	allergyIDs, err := linkedOptionIDs(db, CatalogAllergy, row.ID)
	if err != nil {
		return nil, err
	}

	return &types.RecipeDetail{
		ID:                     row.ID,
		OwnerID:                row.UserID,
		AuthorName:             row.authorName(),
		Title:                  row.Title,
		Ingredients:            row.Ingredients,
		Instructions:           row.Instructions,
		Cuisine:                row.Cuisine,
		PreparationTimeMinutes: row.PreparationTimeMinutes,
		CookingTimeMinutes:     row.CookingTimeMinutes,
		PreparationSteps:       row.PreparationSteps,
		Difficulty:             row.DifficultyRating,
		CostLevel:              row.CostLevel,
		Servings:               row.Servings,
		DietaryOptionIDs:       dietaryIDs,
		AllergyOptionIDs:       allergyIDs,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}, nil
}

// publish runs after commit. A failed publish never changes the result.
func (s *RecipeService) publish(ctx context.Context, eventType events.EventType, recipeID, ownerID uint) {
	event := events.NewRecipeEvent(eventType, recipeID, ownerID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish recipe event",
			zap.String("type", string(eventType)),
			zap.Uint("recipe_id", recipeID),
			zap.Error(err))
	}
}

// logInternal records the cause of internal failures, which never reach the
// client.
func (s *RecipeService) logInternal(err error) error {
	if err != nil && KindOf(err) == KindInternal {
		s.logger.Error("recipe store failure", zap.Error(err))
	}
	return err
}
