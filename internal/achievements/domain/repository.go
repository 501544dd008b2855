package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists achievements. Lists are ordered by unlock time, most
// recent first.
type Repository interface {
	ExistsByIdentity(ctx context.Context, id Identity) (bool, error)
	// SaveAll stores the batch atomically and returns only the rows that
	// were inserted. Rows whose identity already exists are skipped.
	SaveAll(ctx context.Context, achievements []*Achievement) ([]*Achievement, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Achievement, error)
	FindByUserAndType(ctx context.Context, userID uuid.UUID, typ Type) ([]*Achievement, error)
	FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Achievement, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
