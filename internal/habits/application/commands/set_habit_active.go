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

// DeactivateHabitCommand soft-deletes a habit.
type DeactivateHabitCommand struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
}

// ActivateHabitCommand restores a soft-deleted habit.
type ActivateHabitCommand struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
}

// SetHabitActiveHandler handles both DeactivateHabitCommand and
// ActivateHabitCommand. Toggling to the current state is a no-op.
type SetHabitActiveHandler struct {
	habitRepo  domain.HabitRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	cache      CacheInvalidator
}

// NewSetHabitActiveHandler creates a new SetHabitActiveHandler.
func NewSetHabitActiveHandler(
	habitRepo domain.HabitRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache CacheInvalidator,
) *SetHabitActiveHandler {
	return &SetHabitActiveHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		cache:      orNoop(cache),
	}
}

// Deactivate executes the DeactivateHabitCommand.
func (h *SetHabitActiveHandler) Deactivate(ctx context.Context, cmd DeactivateHabitCommand) error {
	return h.set(ctx, cmd.UserID, cmd.HabitID, false)
}

// Activate executes the ActivateHabitCommand.
func (h *SetHabitActiveHandler) Activate(ctx context.Context, cmd ActivateHabitCommand) error {
	return h.set(ctx, cmd.UserID, cmd.HabitID, true)
}

func (h *SetHabitActiveHandler) set(ctx context.Context, userID, habitID uuid.UUID, active bool) error {
	changed := false
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := loadOwnedHabit(txCtx, h.habitRepo, userID, habitID)
		if err != nil {
			return err
		}
		if habit.IsActive() == active {
			return nil
		}

		if active {
			habit.Activate()
		} else {
			habit.Deactivate()
		}
		changed = true

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return fmt.Errorf("%w: save habit: %v", sharedDomain.ErrTransient, err)
		}
		return saveEvents(ctx, txCtx, h.outboxRepo, userID, habit.DomainEvents())
	})
	if err != nil {
		return err
	}

	if changed {
		h.cache.InvalidateHabit(ctx, habitID.String())
		h.cache.InvalidateUser(ctx, userID.String())
	}
	return nil
}
