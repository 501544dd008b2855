package domain

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxUnitLength        = 50
)

// Category is the closed set of habit themes.
type Category string

const (
	CategorySport      Category = "SPORT"
	CategorySante      Category = "SANTE"
	CategoryEducation  Category = "EDUCATION"
	CategoryTravail    Category = "TRAVAIL"
	CategoryLifestyle  Category = "LIFESTYLE"
	CategorySocial     Category = "SOCIAL"
	CategoryCreativite Category = "CREATIVITE"
	CategoryFinance    Category = "FINANCE"
	CategoryAutre      Category = "AUTRE"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategorySport, CategorySante, CategoryEducation, CategoryTravail, CategoryLifestyle,
		CategorySocial, CategoryCreativite, CategoryFinance, CategoryAutre,
	}
}

// ParseCategory accepts any casing of a known category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Frequency is how often a habit is meant to be performed.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// ParseFrequency accepts any casing of a known frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return f, nil
	}
	return "", ErrInvalidFrequency
}

// Habit is a user-defined activity whose daily progress is tracked.
type Habit struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	title       string
	description string
	category    Category
	frequency   Frequency
	unit        string
	target      *float64
	active      bool
}

// HabitDetails carries the editable attributes of a habit.
type HabitDetails struct {
	Title       string
	Description string
	Category    Category
	Frequency   Frequency
	Unit        string
	Target      *float64
}

// NewHabit creates an active habit.
func NewHabit(userID uuid.UUID, details HabitDetails) (*Habit, error) {
	details, err := normalize(details)
	if err != nil {
		return nil, err
	}

	h := &Habit{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		active:            true,
	}
	h.apply(details)
	h.AddDomainEvent(NewHabitCreated(h))
	return h, nil
}

// RehydrateHabit recreates a habit from persisted state without generating events.
func RehydrateHabit(base sharedDomain.BaseAggregateRoot, userID uuid.UUID, details HabitDetails, active bool) *Habit {
	h := &Habit{BaseAggregateRoot: base, userID: userID, active: active}
	h.apply(details)
	return h
}

func (h *Habit) UserID() uuid.UUID    { return h.userID }
func (h *Habit) Title() string        { return h.title }
func (h *Habit) Description() string  { return h.description }
func (h *Habit) Category() Category   { return h.category }
func (h *Habit) Frequency() Frequency { return h.frequency }
func (h *Habit) Unit() string         { return h.unit }
func (h *Habit) Target() *float64     { return h.target }
func (h *Habit) IsActive() bool       { return h.active }

// HasTarget reports whether a positive target is set.
func (h *Habit) HasTarget() bool { return h.target != nil && *h.target > 0 }

// TargetValue returns the target, or 0 when none is set.
func (h *Habit) TargetValue() float64 {
	if h.target == nil {
		return 0
	}
	return *h.target
}

// BelongsTo reports whether userID owns the habit.
func (h *Habit) BelongsTo(userID uuid.UUID) bool { return h.userID == userID }

// Details returns the current editable attributes.
func (h *Habit) Details() HabitDetails {
	return HabitDetails{
		Title:       h.title,
		Description: h.description,
		Category:    h.category,
		Frequency:   h.frequency,
		Unit:        h.unit,
		Target:      h.target,
	}
}

// Update replaces the editable attributes. It reports ErrNoChanges when the
// new details equal the current ones.
func (h *Habit) Update(details HabitDetails) error {
	details, err := normalize(details)
	if err != nil {
		return err
	}
	if sameDetails(h.Details(), details) {
		return ErrNoChanges
	}
	h.apply(details)
	h.Touch()
	h.AddDomainEvent(NewHabitUpdated(h))
	return nil
}

// Deactivate soft-deletes the habit. Its progress history is kept.
func (h *Habit) Deactivate() {
	if !h.active {
		return
	}
	h.active = false
	h.Touch()
	h.AddDomainEvent(NewHabitDeactivated(h))
}

// Activate restores a deactivated habit.
func (h *Habit) Activate() {
	if h.active {
		return
	}
	h.active = true
	h.Touch()
	h.AddDomainEvent(NewHabitActivated(h))
}

func (h *Habit) apply(d HabitDetails) {
	h.title = d.Title
	h.description = d.Description
	h.category = d.Category
	h.frequency = d.Frequency
	h.unit = d.Unit
	h.target = d.Target
}

func normalize(d HabitDetails) (HabitDetails, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Unit = strings.TrimSpace(d.Unit)

	switch {
	case d.Title == "":
		return d, ErrEmptyTitle
	case utf8.RuneCountInString(d.Title) > MaxTitleLength:
		return d, ErrTitleTooLong
	case utf8.RuneCountInString(d.Description) > MaxDescriptionLength:
		return d, ErrDescriptionLong
	case d.Unit == "":
		return d, ErrEmptyUnit
	case utf8.RuneCountInString(d.Unit) > MaxUnitLength:
		return d, ErrUnitTooLong
	case d.Target != nil && (!(*d.Target > 0) || math.IsInf(*d.Target, 1)):
		return d, ErrInvalidTarget
	}

	category, err := ParseCategory(string(d.Category))
	if err != nil {
		return d, err
	}
	d.Category = category

	if d.Frequency == "" {
		d.Frequency = FrequencyDaily
	}
	frequency, err := ParseFrequency(string(d.Frequency))
	if err != nil {
		return d, err
	}
	d.Frequency = frequency

	if d.Target != nil {
		t := *d.Target
		d.Target = &t
	}
	return d, nil
}

func sameDetails(a, b HabitDetails) bool {
	if a.Title != b.Title || a.Description != b.Description || a.Category != b.Category ||
		a.Frequency != b.Frequency || a.Unit != b.Unit {
		return false
	}
	switch {
	case a.Target == nil && b.Target == nil:
		return true
	case a.Target == nil || b.Target == nil:
		return false
	default:
		return *a.Target == *b.Target
	}
}
