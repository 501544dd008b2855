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

// UpdateHabitCommand changes the editable attributes of a habit. Nil fields
// keep their current value. ClearTarget removes the target.
type UpdateHabitCommand struct {
	UserID      uuid.UUID
	HabitID     uuid.UUID
	Title       *string
	Description *string
	Category    *string
	Frequency   *string
	Unit        *string
	Target      *float64
	ClearTarget bool
}

// UpdateHabitHandler handles the UpdateHabitCommand.
type UpdateHabitHandler struct {
	habitRepo  domain.HabitRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	cache      CacheInvalidator
}

// NewUpdateHabitHandler creates a new UpdateHabitHandler.
func NewUpdateHabitHandler(
	habitRepo domain.HabitRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache CacheInvalidator,
) *UpdateHabitHandler {
	return &UpdateHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		cache:      orNoop(cache),
	}
}

// Handle executes the UpdateHabitCommand.
func (h *UpdateHabitHandler) Handle(ctx context.Context, cmd UpdateHabitCommand) error {
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := loadOwnedHabit(txCtx, h.habitRepo, cmd.UserID, cmd.HabitID)
		if err != nil {
			return err
		}

		if err := habit.Update(cmd.apply(habit.Details())); err != nil {
			return err
		}

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return fmt.Errorf("%w: save habit: %v", sharedDomain.ErrTransient, err)
		}
		return saveEvents(ctx, txCtx, h.outboxRepo, cmd.UserID, habit.DomainEvents())
	})
	if err != nil {
		return err
	}

	h.cache.InvalidateHabit(ctx, cmd.HabitID.String())
	h.cache.InvalidateUser(ctx, cmd.UserID.String())
	return nil
}

func (cmd UpdateHabitCommand) apply(d domain.HabitDetails) domain.HabitDetails {
	if cmd.Title != nil {
		d.Title = *cmd.Title
	}
	if cmd.Description != nil {
		d.Description = *cmd.Description
	}
	if cmd.Category != nil {
		d.Category = domain.Category(*cmd.Category)
	}
	if cmd.Frequency != nil {
		d.Frequency = domain.Frequency(*cmd.Frequency)
	}
	if cmd.Unit != nil {
		d.Unit = *cmd.Unit
	}
	switch {
	case cmd.ClearTarget:
		d.Target = nil
	case cmd.Target != nil:
		d.Target = cmd.Target
	}
	return d
}
