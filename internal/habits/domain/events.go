package domain

import (
	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

const (
	HabitAggregateType    = "Habit"
	ProgressAggregateType = "ProgressEntry"

	RoutingKeyHabitCreated     = "habits.habit.created"
	RoutingKeyHabitUpdated     = "habits.habit.updated"
	RoutingKeyHabitDeactivated = "habits.habit.deactivated"
	RoutingKeyHabitActivated   = "habits.habit.activated"

	RoutingKeyProgressLogged  = "habits.progress.logged"
	RoutingKeyProgressUpdated = "habits.progress.updated"
	RoutingKeyProgressDeleted = "habits.progress.deleted"
)

// HabitCreated is emitted when a habit is created.
type HabitCreated struct {
	sharedDomain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Frequency string    `json:"frequency"`
	Unit      string    `json:"unit"`
	Target    *float64  `json:"target,omitempty"`
}

// NewHabitCreated creates a HabitCreated event.
func NewHabitCreated(h *Habit) HabitCreated {
	return HabitCreated{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID(), HabitAggregateType, RoutingKeyHabitCreated),
		UserID:    h.UserID(),
		Title:     h.Title(),
		Category:  string(h.Category()),
		Frequency: string(h.Frequency()),
		Unit:      h.Unit(),
		Target:    h.Target(),
	}
}

// HabitUpdated is emitted when a habit's attributes change.
type HabitUpdated struct {
	sharedDomain.BaseEvent
	UserID   uuid.UUID `json:"user_id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Target   *float64  `json:"target,omitempty"`
}

// NewHabitUpdated creates a HabitUpdated event.
func NewHabitUpdated(h *Habit) HabitUpdated {
	return HabitUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID(), HabitAggregateType, RoutingKeyHabitUpdated),
		UserID:    h.UserID(),
		Title:     h.Title(),
		Category:  string(h.Category()),
		Target:    h.Target(),
	}
}

// HabitDeactivated is emitted when a habit is soft-deleted.
type HabitDeactivated struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewHabitDeactivated creates a HabitDeactivated event.
func NewHabitDeactivated(h *Habit) HabitDeactivated {
	return HabitDeactivated{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID(), HabitAggregateType, RoutingKeyHabitDeactivated),
		UserID:    h.UserID(),
	}
}

// HabitActivated is emitted when a soft-deleted habit is restored.
type HabitActivated struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewHabitActivated creates a HabitActivated event.
func NewHabitActivated(h *Habit) HabitActivated {
	return HabitActivated{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID(), HabitAggregateType, RoutingKeyHabitActivated),
		UserID:    h.UserID(),
	}
}

// ProgressLogged is emitted when a progress entry is recorded.
type ProgressLogged struct {
	sharedDomain.BaseEvent
	UserID  uuid.UUID `json:"user_id"`
	HabitID uuid.UUID `json:"habit_id"`
	Day     string    `json:"day"`
	Value   float64   `json:"value"`
}

// NewProgressLogged creates a ProgressLogged event.
func NewProgressLogged(p *ProgressEntry) ProgressLogged {
	return ProgressLogged{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), ProgressAggregateType, RoutingKeyProgressLogged),
		UserID:    p.UserID(),
		HabitID:   p.HabitID(),
		Day:       p.Day().String(),
		Value:     p.Value(),
	}
}

// ProgressUpdated is emitted when an entry's value or note changes.
type ProgressUpdated struct {
	sharedDomain.BaseEvent
	UserID  uuid.UUID `json:"user_id"`
	HabitID uuid.UUID `json:"habit_id"`
	Day     string    `json:"day"`
	Value   float64   `json:"value"`
}

// NewProgressUpdated creates a ProgressUpdated event.
func NewProgressUpdated(p *ProgressEntry) ProgressUpdated {
	return ProgressUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), ProgressAggregateType, RoutingKeyProgressUpdated),
		UserID:    p.UserID(),
		HabitID:   p.HabitID(),
		Day:       p.Day().String(),
		Value:     p.Value(),
	}
}

// ProgressDeleted is emitted when an entry is removed.
type ProgressDeleted struct {
	sharedDomain.BaseEvent
	UserID  uuid.UUID `json:"user_id"`
	HabitID uuid.UUID `json:"habit_id"`
	Day     string    `json:"day"`
}

// NewProgressDeleted creates a ProgressDeleted event.
func NewProgressDeleted(p *ProgressEntry) ProgressDeleted {
	return ProgressDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), ProgressAggregateType, RoutingKeyProgressDeleted),
		UserID:    p.UserID(),
		HabitID:   p.HabitID(),
		Day:       p.Day().String(),
	}
}
