package domain

import (
	"context"

	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// HabitRepository persists habits. Finders return nil, nil when no row matches.
type HabitRepository interface {
	Save(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	// FindByUser returns the user's habits ordered by creation time.
	FindByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*Habit, error)
	CountByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) (int, error)
}

// ProgressRepository persists progress entries and serves the read shapes
// analytics needs. Entry lists are ordered by day ascending.
type ProgressRepository interface {
	Save(ctx context.Context, entry *ProgressEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProgressEntry, error)

	FindByHabitBetween(ctx context.Context, habitID uuid.UUID, window sharedDomain.Window) ([]*ProgressEntry, error)
	FindByUserBetween(ctx context.Context, userID uuid.UUID, window sharedDomain.Window) ([]*ProgressEntry, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*ProgressEntry, error)
	LatestForHabit(ctx context.Context, habitID uuid.UUID) (*ProgressEntry, error)

	// DatesForHabit and DatesForUser return distinct days with at least one entry.
	DatesForHabit(ctx context.Context, habitID uuid.UUID) ([]sharedDomain.Day, error)
	DatesForUser(ctx context.Context, userID uuid.UUID) ([]sharedDomain.Day, error)

	ExistsFor(ctx context.Context, userID, habitID uuid.UUID, day sharedDomain.Day) (bool, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountByHabit(ctx context.Context, habitID uuid.UUID) (int, error)
}
