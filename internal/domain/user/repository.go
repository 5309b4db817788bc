package user

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for accounts. Implementations
// store what they are given; password hashing happens before Save.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}
