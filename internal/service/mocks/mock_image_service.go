package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adgallery/internal/service"
)

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) GenerateImages(ctx context.Context, prompt string, params map[string]any, n int, workspaceID string) (*service.ImageGenResult, error) {
	args := m.Called(ctx, prompt, params, n, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImageGenResult), args.Error(1)
}
