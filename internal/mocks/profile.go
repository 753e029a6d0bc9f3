package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// MockProfileService is a mock implementation of the ProfileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uint) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uint, req *types.UpdateProfileRequest) (*types.UserProfile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockProfileService) GetPreferences(ctx context.Context, userID uint) (*types.Preferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Preferences), args.Error(1)
}

func (m *MockProfileService) ReplacePreferences(ctx context.Context, userID uint, dietaryIDs, allergyIDs []uint) (*types.Preferences, error) {
	args := m.Called(ctx, userID, dietaryIDs, allergyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Preferences), args.Error(1)
}
