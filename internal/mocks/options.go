package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// MockOptionService is a mock implementation of the option catalog service
type MockOptionService struct {
	mock.Mock
}

func (m *MockOptionService) ListCatalogs(ctx context.Context) (*types.OptionCatalogs, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.OptionCatalogs), args.Error(1)
}
