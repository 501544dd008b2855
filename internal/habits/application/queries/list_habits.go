package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// ListHabitsQuery lists a user's habits.
type ListHabitsQuery struct {
	UserID          uuid.UUID
	IncludeInactive bool
	Category        string
}

// ListHabitsHandler handles the ListHabitsQuery.
type ListHabitsHandler struct {
	habitRepo domain.HabitRepository
}

// NewListHabitsHandler creates a new ListHabitsHandler.
func NewListHabitsHandler(habitRepo domain.HabitRepository) *ListHabitsHandler {
	return &ListHabitsHandler{habitRepo: habitRepo}
}

// Handle executes the ListHabitsQuery. Habits come back in creation order.
func (h *ListHabitsHandler) Handle(ctx context.Context, query ListHabitsQuery) ([]HabitDTO, error) {
	var category domain.Category
	if query.Category != "" {
		c, err := domain.ParseCategory(query.Category)
		if err != nil {
			return nil, err
		}
		category = c
	}

	habits, err := h.habitRepo.FindByUser(ctx, query.UserID, !query.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("%w: list habits: %v", sharedDomain.ErrTransient, err)
	}

	dtos := make([]HabitDTO, 0, len(habits))
	for _, habit := range habits {
		if category != "" && habit.Category() != category {
			continue
		}
		dtos = append(dtos, toHabitDTO(habit))
	}
	return dtos, nil
}
