package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adgallery/internal/model"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetOrCreate(ctx context.Context, userID, email string) (*model.User, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, userID, email string, isPaid bool) (*model.User, error) {
	args := m.Called(ctx, userID, email, isPaid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) IsPaid(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) UpdateSubscription(ctx context.Context, userID string, isPaid bool) error {
	args := m.Called(ctx, userID, isPaid)
	return args.Error(0)
}
