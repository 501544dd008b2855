package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users. Finders return nil, nil when no row matches.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
	ExistsByEmail(ctx context.Context, email Email) (bool, error)
}
