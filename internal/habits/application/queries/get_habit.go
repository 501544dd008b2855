package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// GetHabitQuery loads one habit owned by the user.
type GetHabitQuery struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
}

// GetHabitHandler handles the GetHabitQuery.
type GetHabitHandler struct {
	habitRepo domain.HabitRepository
}

// NewGetHabitHandler creates a new GetHabitHandler.
func NewGetHabitHandler(habitRepo domain.HabitRepository) *GetHabitHandler {
	return &GetHabitHandler{habitRepo: habitRepo}
}

// Handle executes the GetHabitQuery.
func (h *GetHabitHandler) Handle(ctx context.Context, query GetHabitQuery) (*HabitDTO, error) {
	habit, err := h.habitRepo.FindByID(ctx, query.HabitID)
	if err != nil {
		return nil, fmt.Errorf("%w: load habit: %v", sharedDomain.ErrTransient, err)
	}
	if habit == nil || !habit.BelongsTo(query.UserID) {
		return nil, domain.ErrHabitNotFound
	}
	dto := toHabitDTO(habit)
	return &dto, nil
}
