package service

import (
	"context"
	"errors"
	"fmt"

	"adgallery/internal/model"
	"adgallery/internal/repository"
)

// UserService manages subscription records keyed by external user id.
type UserService interface {
	// GetOrCreate returns the user, creating a free-tier record on first
	// sight.
	GetOrCreate(ctx context.Context, userID, email string) (*model.User, error)

	// Create inserts a new user. Returns ErrUserExists when the id is taken.
	Create(ctx context.Context, userID, email string, isPaid bool) (*model.User, error)

	// IsPaid reports the user's tier; unknown users are free.
	IsPaid(ctx context.Context, userID string) (bool, error)

	// UpdateSubscription switches the user's tier, creating the record
	// first if needed.
	UpdateSubscription(ctx context.Context, userID string, isPaid bool) error
}

var ErrUserIDRequired = errors.New("user_id is required")

type userService struct {
	repo repository.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetOrCreate(ctx context.Context, userID, email string) (*model.User, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	user, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	created := &model.User{UserID: userID, Email: email}
	if _, err := s.repo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.repo.FindByUserID(ctx, userID)
}

func (s *userService) Create(ctx context.Context, userID, email string, isPaid bool) (*model.User, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	_, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user := &model.User{UserID: userID, Email: email, IsPaid: isPaid}
	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.repo.FindByUserID(ctx, userID)
}

func (s *userService) IsPaid(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	user, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsPaid, nil
}

func (s *userService) UpdateSubscription(ctx context.Context, userID string, isPaid bool) error {
	if userID == "" {
		return ErrUserIDRequired
	}
	if _, err := s.GetOrCreate(ctx, userID, ""); err != nil {
		return err
	}
	ok, err := s.repo.UpdateSubscription(ctx, userID, isPaid)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}
