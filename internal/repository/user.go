package repository

import (
	"context"

	"adgallery/internal/model"
)

// UserRepository defines data access for user subscription records.
type UserRepository interface {
	// FindByUserID returns the user with the given external identifier,
	// or ErrNotFound.
	FindByUserID(ctx context.Context, userID string) (*model.User, error)

	// Create inserts a new user record and returns the assigned hex id.
	Create(ctx context.Context, user *model.User) (string, error)

	// UpdateSubscription toggles is_paid and refreshes updated_at.
	// Reports whether a document matched.
	UpdateSubscription(ctx context.Context, userID string, isPaid bool) (bool, error)
}
