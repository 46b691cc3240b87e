package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adgallery/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) UpdateSubscription(ctx context.Context, userID string, isPaid bool) (bool, error) {
	args := m.Called(ctx, userID, isPaid)
	return args.Bool(0), args.Error(1)
}
