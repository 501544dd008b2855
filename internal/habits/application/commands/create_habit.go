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

// CreateHabitCommand contains the data needed to create a habit.
type CreateHabitCommand struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Category    string
	Frequency   string
	Unit        string
	Target      *float64
}

// CreateHabitResult contains the result of creating a habit.
type CreateHabitResult struct {
	HabitID uuid.UUID `json:"habit_id"`
}

// CreateHabitHandler handles the CreateHabitCommand.
type CreateHabitHandler struct {
	habitRepo  domain.HabitRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	cache      CacheInvalidator
}

// NewCreateHabitHandler creates a new CreateHabitHandler.
func NewCreateHabitHandler(
	habitRepo domain.HabitRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache CacheInvalidator,
) *CreateHabitHandler {
	return &CreateHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		cache:      orNoop(cache),
	}
}

// Handle executes the CreateHabitCommand.
func (h *CreateHabitHandler) Handle(ctx context.Context, cmd CreateHabitCommand) (*CreateHabitResult, error) {
	habit, err := domain.NewHabit(cmd.UserID, domain.HabitDetails{
		Title:       cmd.Title,
		Description: cmd.Description,
		Category:    domain.Category(cmd.Category),
		Frequency:   domain.Frequency(cmd.Frequency),
		Unit:        cmd.Unit,
		Target:      cmd.Target,
	})
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return fmt.Errorf("%w: save habit: %v", sharedDomain.ErrTransient, err)
		}
		return saveEvents(ctx, txCtx, h.outboxRepo, cmd.UserID, habit.DomainEvents())
	})
	if err != nil {
		return nil, err
	}

	h.cache.InvalidateUser(ctx, cmd.UserID.String())
	return &CreateHabitResult{HabitID: habit.ID()}, nil
}
