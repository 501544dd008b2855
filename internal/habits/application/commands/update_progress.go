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

// UpdateProgressCommand changes the value and/or note of an entry.
type UpdateProgressCommand struct {
	UserID  uuid.UUID
	EntryID uuid.UUID
	Value   *float64
	Note    *string
}

// UpdateProgressHandler handles the UpdateProgressCommand.
type UpdateProgressHandler struct {
	progressRepo domain.ProgressRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	cache        CacheInvalidator
}

// NewUpdateProgressHandler creates a new UpdateProgressHandler.
func NewUpdateProgressHandler(
	progressRepo domain.ProgressRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache CacheInvalidator,
) *UpdateProgressHandler {
	return &UpdateProgressHandler{
		progressRepo: progressRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		cache:        orNoop(cache),
	}
}

// Handle executes the UpdateProgressCommand.
func (h *UpdateProgressHandler) Handle(ctx context.Context, cmd UpdateProgressCommand) error {
	if cmd.Value == nil && cmd.Note == nil {
		return domain.ErrNoChanges
	}

	var habitID uuid.UUID
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		entry, err := loadOwnedEntry(txCtx, h.progressRepo, cmd.UserID, cmd.EntryID)
		if err != nil {
			return err
		}
		habitID = entry.HabitID()

		if err := entry.Update(cmd.Value, cmd.Note); err != nil {
			return err
		}
		if err := h.progressRepo.Save(txCtx, entry); err != nil {
			return fmt.Errorf("%w: save progress: %v", sharedDomain.ErrTransient, err)
		}
		return saveEvents(ctx, txCtx, h.outboxRepo, cmd.UserID, entry.DomainEvents())
	})
	if err != nil {
		return err
	}

	h.cache.InvalidateHabit(ctx, habitID.String())
	h.cache.InvalidateUser(ctx, cmd.UserID.String())
	return nil
}
