package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"adgallery/internal/model"
	"adgallery/internal/repository"
)

// UserMongo is the MongoDB implementation of repository.UserRepository.
type UserMongo struct {
	base
}

// NewUserMongo creates a user repository bound to the given collection.
func NewUserMongo(coll Collection) *UserMongo {
	return &UserMongo{base: base{coll: coll}}
}

var _ repository.UserRepository = (*UserMongo)(nil)

// FindByUserID looks a user up by external identifier.
func (r *UserMongo) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	if err := r.findOne(ctx, bson.M{"user_id": userID}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user record.
func (r *UserMongo) Create(ctx context.Context, user *model.User) (string, error) {
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	oid, err := r.insertOne(ctx, user)
	if err != nil {
		return "", err
	}
	user.ID = oid
	return oid.Hex(), nil
}

// UpdateSubscription flips the is_paid flag and refreshes updated_at.
func (r *UserMongo) UpdateSubscription(ctx context.Context, userID string, isPaid bool) (bool, error) {
	update := bson.M{"$set": bson.M{
		"is_paid":    isPaid,
		"updated_at": now(),
	}}
	return r.updateOne(ctx, bson.M{"user_id": userID}, update)
}
