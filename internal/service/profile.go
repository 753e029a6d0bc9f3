package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mealmajor/mealmajor/backend/internal/models"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// ProfileService handles account profiles and dietary preferences
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

func loadUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("failed to load user", err)
	}
	return &user, nil
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*types.UserProfile, error) {
	user, err := loadUser(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	profile := types.NewUserProfile(user)
	return &profile, nil
}

// UpdateProfile replaces the names and email of a user. The password is only
// re-hashed when one is supplied.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, req *types.UpdateProfileRequest) (*types.UserProfile, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, validationError("All fields are required.")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	var passwordHash string
	if req.Password != nil {
		if passwordHash, err = hashPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	var user *models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = loadUser(tx, userID); err != nil {
			return err
		}

		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&taken).Error; err != nil {
			return internalError("failed to check email", err)
		}
		if taken > 0 {
			return ErrEmailTaken
		}

		user.FirstName = firstName
		user.LastName = lastName
		user.Email = email
		if passwordHash != "" {
			user.PasswordHash = passwordHash
		}
		if err := tx.Save(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return internalError("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError("failed to update profile", err)
	}

	profile := types.NewUserProfile(user)
	return &profile, nil
}

// GetPreferences lists the options a user selected, each catalog ordered by
// option id
func (s *ProfileService) GetPreferences(ctx context.Context, userID uint) (*types.Preferences, error) {
	db := s.db.WithContext(ctx)
	if _, err := loadUser(db, userID); err != nil {
		return nil, err
	}

	dietary, err := userOptions(db, CatalogDietary, userID)
	if err != nil {
		return nil, err
	}
	allergy, err := userOptions(db, CatalogAllergy, userID)
	if err != nil {
		return nil, err
	}
	return &types.Preferences{DietaryOptions: dietary, AllergyOptions: allergy}, nil
}

// ReplacePreferences fully replaces both preference sets of a user in one
// transaction. Unknown option ids abort the whole replacement.
func (s *ProfileService) ReplacePreferences(ctx context.Context, userID uint, dietaryIDs, allergyIDs []uint) (*types.Preferences, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadUser(tx, userID); err != nil {
			return err
		}

		dietary, err := validateOptionIDs(tx, CatalogDietary, dietaryIDs)
		if err != nil {
			return err
		}
		allergy, err := validateOptionIDs(tx, CatalogAllergy, allergyIDs)
		if err != nil {
			return err
		}

		for _, set := range []struct {
			catalog Catalog
			ids     []uint
		}{
			{CatalogDietary, dietary},
			{CatalogAllergy, allergy},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(set.catalog.userLinkModel()).Error; err != nil {
				return internalError("failed to clear "+string(set.catalog)+" preferences", err)
			}
			if len(set.ids) == 0 {
				continue
			}
			if err := tx.Create(set.catalog.userLinks(userID, set.ids)).Error; err != nil {
				return internalError("failed to store "+string(set.catalog)+" preferences", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError("failed to replace preferences", err)
	}
	return s.GetPreferences(ctx, userID)
}

func userOptions(db *gorm.DB, c Catalog, userID uint) ([]models.Option, error) {
	options := []models.Option{}
	err := db.Table(c.optionTable()+" AS o").
		Select("o.id, o.name").
		Joins("JOIN user_"+c.optionTable()+" AS l ON l."+c.linkColumn()+" = o.id").
		Where("l.user_id = ?", userID).
		Order("o.id").
		Scan(&options).Error
	if err != nil {
		return nil, internalError("failed to load "+string(c)+" preferences", err)
	}
	return options, nil
}
