package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedApplication "github.com/jplande/HabitTracker/internal/shared/application"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
)

// CacheInvalidator evicts cached analytics once a mutation has committed.
type CacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
	InvalidateHabit(ctx context.Context, habitID string)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateUser(context.Context, string)  {}
func (noopInvalidator) InvalidateHabit(context.Context, string) {}

func orNoop(c CacheInvalidator) CacheInvalidator {
	if c == nil {
		return noopInvalidator{}
	}
	return c
}

// loadOwnedHabit hides habits of other users behind ErrHabitNotFound.
func loadOwnedHabit(ctx context.Context, repo domain.HabitRepository, userID, habitID uuid.UUID) (*domain.Habit, error) {
	habit, err := repo.FindByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("%w: load habit: %v", sharedDomain.ErrTransient, err)
	}
	if habit == nil || !habit.BelongsTo(userID) {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func loadOwnedEntry(ctx context.Context, repo domain.ProgressRepository, userID, entryID uuid.UUID) (*domain.ProgressEntry, error) {
	entry, err := repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("%w: load progress: %v", sharedDomain.ErrTransient, err)
	}
	if entry == nil || entry.UserID() != userID {
		return nil, domain.ErrProgressNotFound
	}
	return entry, nil
}

func saveEvents(ctx, txCtx context.Context, repo outbox.Repository, userID uuid.UUID, events []sharedDomain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, userID))
	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := repo.SaveBatch(txCtx, msgs); err != nil {
		return fmt.Errorf("%w: save outbox: %v", sharedDomain.ErrTransient, err)
	}
	return nil
}
