package service

import (
	"context"

	"github.com/mealmajor/mealmajor/backend/internal/models"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.SignUpRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uint) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uint, req *types.UpdateProfileRequest) (*types.UserProfile, error)
	GetPreferences(ctx context.Context, userID uint) (*types.Preferences, error)
	ReplacePreferences(ctx context.Context, userID uint, dietaryIDs, allergyIDs []uint) (*types.Preferences, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, ownerID uint, req *types.RecipeRequest) (uint, error)
	UpdateRecipe(ctx context.Context, recipeID, editorID uint, req *types.RecipeRequest) error
	DeleteRecipe(ctx context.Context, recipeID, ownerID uint) error
	GetRecipe(ctx context.Context, recipeID, requesterID uint) (*types.RecipeDetail, error)
	ListRecipes(ctx context.Context, ownerID uint) ([]types.RecipeSummary, error)
	BrowseRecipes(ctx context.Context, filter *types.BrowseFilter) ([]types.BrowseRecipe, error)
	GetBrowseRecipe(ctx context.Context, recipeID uint) (*types.RecipeDetail, error)
}

// IOptionService defines the interface for the option catalogs
type IOptionService interface {
	ListCatalogs(ctx context.Context) (*types.OptionCatalogs, error)
}

// ISeedService defines the interface for loading default recipes
type ISeedService interface {
	Seed(ctx context.Context, recipes []types.SeedRecipe) (*SeedResult, error)
}
