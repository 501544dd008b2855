package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
)

// HabitDTO is the read model of a habit.
type HabitDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Frequency   string    `json:"frequency"`
	Unit        string    `json:"unit"`
	Target      *float64  `json:"target,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProgressDTO is the read model of a progress entry.
type ProgressDTO struct {
	ID      uuid.UUID `json:"id"`
	HabitID uuid.UUID `json:"habit_id"`
	Day     string    `json:"day"`
	Value   float64   `json:"value"`
	Note    string    `json:"note,omitempty"`
}

func toHabitDTO(h *domain.Habit) HabitDTO {
	return HabitDTO{
		ID:          h.ID(),
		Title:       h.Title(),
		Description: h.Description(),
		Category:    string(h.Category()),
		Frequency:   string(h.Frequency()),
		Unit:        h.Unit(),
		Target:      h.Target(),
		Active:      h.IsActive(),
		CreatedAt:   h.CreatedAt(),
	}
}

func toProgressDTO(p *domain.ProgressEntry) ProgressDTO {
	return ProgressDTO{
		ID:      p.ID(),
		HabitID: p.HabitID(),
		Day:     p.Day().String(),
		Value:   p.Value(),
		Note:    p.Note(),
	}
}
