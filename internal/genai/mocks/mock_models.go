package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adgallery/internal/genai"
)

type MockTextModel struct {
	mock.Mock
}

func (m *MockTextModel) Complete(ctx context.Context, req genai.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockImageModel struct {
	mock.Mock
}

func (m *MockImageModel) Generate(ctx context.Context, req genai.ImageRequest) (genai.ImageResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(genai.ImageResult), args.Error(1)
}
