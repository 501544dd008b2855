package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// ListProgressQuery lists the entries of one habit inside an inclusive window.
type ListProgressQuery struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
	Window  sharedDomain.Window
}

// ListProgressHandler handles the ListProgressQuery.
type ListProgressHandler struct {
	habitRepo    domain.HabitRepository
	progressRepo domain.ProgressRepository
}

// NewListProgressHandler creates a new ListProgressHandler.
func NewListProgressHandler(habitRepo domain.HabitRepository, progressRepo domain.ProgressRepository) *ListProgressHandler {
	return &ListProgressHandler{habitRepo: habitRepo, progressRepo: progressRepo}
}

// Handle executes the ListProgressQuery. The window is validated again so
// that callers building it by hand cannot exceed the allowed span.
func (h *ListProgressHandler) Handle(ctx context.Context, query ListProgressQuery) ([]ProgressDTO, error) {
	window, err := sharedDomain.NewWindow(query.Window.Start, query.Window.End)
	if err != nil {
		return nil, err
	}

	habit, err := h.habitRepo.FindByID(ctx, query.HabitID)
	if err != nil {
		return nil, fmt.Errorf("%w: load habit: %v", sharedDomain.ErrTransient, err)
	}
	if habit == nil || !habit.BelongsTo(query.UserID) {
		return nil, domain.ErrHabitNotFound
	}

	entries, err := h.progressRepo.FindByHabitBetween(ctx, habit.ID(), window)
	if err != nil {
		return nil, fmt.Errorf("%w: list progress: %v", sharedDomain.ErrTransient, err)
	}

	dtos := make([]ProgressDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toProgressDTO(e))
	}
	return dtos, nil
}
