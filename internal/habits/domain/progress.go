package domain

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// MaxNoteLength is the longest note accepted on a progress entry.
const MaxNoteLength = 500

// ProgressEntry records the value a user reached for a habit on one day.
type ProgressEntry struct {
	sharedDomain.BaseAggregateRoot
	userID  uuid.UUID
	habitID uuid.UUID
	day     sharedDomain.Day
	value   float64
	note    string
}

// NewProgressEntry logs progress for an active habit on a day no later than today.
func NewProgressEntry(habit *Habit, day sharedDomain.Day, value float64, note string, today sharedDomain.Day) (*ProgressEntry, error) {
	if !habit.IsActive() {
		return nil, ErrHabitInactive
	}
	if day.After(today) {
		return nil, ErrFutureDay
	}
	if err := validateValue(value); err != nil {
		return nil, err
	}
	note, err := normalizeNote(note)
	if err != nil {
		return nil, err
	}

	p := &ProgressEntry{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            habit.UserID(),
		habitID:           habit.ID(),
		day:               day,
		value:             value,
		note:              note,
	}
	p.AddDomainEvent(NewProgressLogged(p))
	return p, nil
}

// RehydrateProgressEntry recreates an entry from persisted state.
func RehydrateProgressEntry(base sharedDomain.BaseAggregateRoot, userID, habitID uuid.UUID, day sharedDomain.Day, value float64, note string) *ProgressEntry {
	return &ProgressEntry{
		BaseAggregateRoot: base,
		userID:            userID,
		habitID:           habitID,
		day:               day,
		value:             value,
		note:              note,
	}
}

func (p *ProgressEntry) UserID() uuid.UUID     { return p.userID }
func (p *ProgressEntry) HabitID() uuid.UUID    { return p.habitID }
func (p *ProgressEntry) Day() sharedDomain.Day { return p.day }
func (p *ProgressEntry) Value() float64        { return p.value }
func (p *ProgressEntry) Note() string          { return p.note }

// Update changes the value and/or note. At least one must differ from the
// current state.
func (p *ProgressEntry) Update(value *float64, note *string) error {
	changed := false
	if value != nil && *value != p.value {
		if err := validateValue(*value); err != nil {
			return err
		}
		changed = true
	}
	var normalized string
	if note != nil {
		n, err := normalizeNote(*note)
		if err != nil {
			return err
		}
		normalized = n
		if n != p.note {
			changed = true
		}
	}
	if !changed {
		return ErrNoChanges
	}

	if value != nil {
		p.value = *value
	}
	if note != nil {
		p.note = normalized
	}
	p.Touch()
	p.AddDomainEvent(NewProgressUpdated(p))
	return nil
}

// MarkDeleted records the deletion event. The store removes the row.
func (p *ProgressEntry) MarkDeleted() {
	p.AddDomainEvent(NewProgressDeleted(p))
}

func validateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFiniteValue
	}
	if v < 0 {
		return ErrNegativeValue
	}
	return nil
}

func normalizeNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return "", ErrNoteTooLong
	}
	return note, nil
}
