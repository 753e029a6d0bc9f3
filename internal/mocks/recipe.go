package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, ownerID uint, req *types.RecipeRequest) (uint, error) {
	args := m.Called(ctx, ownerID, req)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, recipeID, editorID uint, req *types.RecipeRequest) error {
	args := m.Called(ctx, recipeID, editorID, req)
	return args.Error(0)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, recipeID, ownerID uint) error {
	args := m.Called(ctx, recipeID, ownerID)
	return args.Error(0)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, recipeID, requesterID uint) (*types.RecipeDetail, error) {
	args := m.Called(ctx, recipeID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, ownerID uint) ([]types.RecipeSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeSummary), args.Error(1)
}

func (m *MockRecipeService) BrowseRecipes(ctx context.Context, filter *types.BrowseFilter) ([]types.BrowseRecipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.BrowseRecipe), args.Error(1)
}

func (m *MockRecipeService) GetBrowseRecipe(ctx context.Context, recipeID uint) (*types.RecipeDetail, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}
