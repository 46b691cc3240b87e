package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adgallery/internal/service"
)

type MockPromptService struct {
	mock.Mock
}

func (m *MockPromptService) GenerateVariations(ctx context.Context, params map[string]any, n int) ([]service.PromptVariation, error) {
	args := m.Called(ctx, params, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.PromptVariation), args.Error(1)
}

func (m *MockPromptService) AnalyzeImage(ctx context.Context, imageBase64 string) (*service.ImageAnalysis, error) {
	args := m.Called(ctx, imageBase64)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImageAnalysis), args.Error(1)
}

func (m *MockPromptService) AutofillFields(ctx context.Context, productDescription, category, brandName string) (map[string]any, error) {
	args := m.Called(ctx, productDescription, category, brandName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}
