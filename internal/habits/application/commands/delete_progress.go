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

// DeleteProgressCommand removes a progress entry.
type DeleteProgressCommand struct {
	UserID  uuid.UUID
	EntryID uuid.UUID
}

// DeleteProgressHandler handles the DeleteProgressCommand.
type DeleteProgressHandler struct {
	progressRepo domain.ProgressRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	cache        CacheInvalidator
}

// NewDeleteProgressHandler creates a new DeleteProgressHandler.
func NewDeleteProgressHandler(
	progressRepo domain.ProgressRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache CacheInvalidator,
) *DeleteProgressHandler {
	return &DeleteProgressHandler{
		progressRepo: progressRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		cache:        orNoop(cache),
	}
}

// Handle executes the DeleteProgressCommand.
func (h *DeleteProgressHandler) Handle(ctx context.Context, cmd DeleteProgressCommand) error {
	var habitID uuid.UUID
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		entry, err := loadOwnedEntry(txCtx, h.progressRepo, cmd.UserID, cmd.EntryID)
		if err != nil {
			return err
		}
		habitID = entry.HabitID()

		entry.MarkDeleted()
		if err := h.progressRepo.Delete(txCtx, entry.ID()); err != nil {
			return fmt.Errorf("%w: delete progress: %v", sharedDomain.ErrTransient, err)
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
