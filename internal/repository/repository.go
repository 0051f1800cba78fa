package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mesto/internal/model"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error)
}

// CardRepository defines card persistence operations.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	FindByID(ctx context.Context, id string) (*model.Card, error)
	List(ctx context.Context) ([]model.Card, error)
	// Delete removes the card only if it belongs to ownerID.
	Delete(ctx context.Context, id, ownerID string) (*model.Card, error)
	AddLike(ctx context.Context, id, userID string) (*model.Card, error)
	RemoveLike(ctx context.Context, id, userID string) (*model.Card, error)
}

// NewID returns a fresh 24-hex identifier shared by every backend.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
