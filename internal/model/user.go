package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User tracks subscription state per external user id. Paid users are
// routed to the premium image model.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	IsPaid    bool               `bson:"is_paid" json:"is_paid"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
