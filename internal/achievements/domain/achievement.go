package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

var (
	ErrInvalidType = fmt.Errorf("%w: unknown achievement type", sharedDomain.ErrInvalidArgument)
)

// Type classifies achievements.
type Type string

const (
	TypeMilestone    Type = "MILESTONE"
	TypeStreak       Type = "STREAK"
	TypeConsistency  Type = "CONSISTENCY"
	TypeDedication   Type = "DEDICATION"
	TypeOverachiever Type = "OVERACHIEVER"
	TypeVariety      Type = "VARIETY"
	TypeEarlyBird    Type = "EARLY_BIRD"
	TypePerseverance Type = "PERSEVERANCE"
)

// Types lists every achievement type.
func Types() []Type {
	return []Type{
		TypeMilestone, TypeStreak, TypeConsistency, TypeDedication,
		TypeOverachiever, TypeVariety, TypeEarlyBird, TypePerseverance,
	}
}

// ParseType accepts any casing of a known type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Types() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

var categories = map[Type]string{
	TypeConsistency:  "Régularité",
	TypeStreak:       "Régularité",
	TypeMilestone:    "Progression",
	TypeDedication:   "Progression",
	TypeOverachiever: "Performance",
	TypeVariety:      "Diversité",
	TypeEarlyBird:    "Timing",
	TypePerseverance: "Persévérance",
}

// Category is the display group of the type.
func (t Type) Category() string {
	if c, ok := categories[t]; ok {
		return c
	}
	return "Autre"
}

// Identity is the natural key of an achievement: a user holds at most one
// achievement per name and type.
type Identity struct {
	UserID uuid.UUID
	Name   string
	Type   Type
}

// Achievement is an unlocked badge. It never changes once created.
type Achievement struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	habitID     *uuid.UUID
	name        string
	description string
	icon        string
	typ         Type
	unlockedAt  time.Time
}

// Unlock awards the rule to the user. habitID names the habit being checked
// when the unlock fired, if any.
func Unlock(userID uuid.UUID, habitID *uuid.UUID, rule Rule, at time.Time) *Achievement {
	a := &Achievement{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		habitID:           copyID(habitID),
		name:              rule.Name,
		description:       rule.Description,
		icon:              rule.Icon,
		typ:               rule.Type,
		unlockedAt:        at.UTC(),
	}
	a.AddDomainEvent(NewAchievementUnlocked(a))
	return a
}

// RehydrateAchievement recreates an achievement from persisted state.
func RehydrateAchievement(
	base sharedDomain.BaseAggregateRoot,
	userID uuid.UUID,
	habitID *uuid.UUID,
	name, description, icon string,
	typ Type,
	unlockedAt time.Time,
) *Achievement {
	return &Achievement{
		BaseAggregateRoot: base,
		userID:            userID,
		habitID:           copyID(habitID),
		name:              name,
		description:       description,
		icon:              icon,
		typ:               typ,
		unlockedAt:        unlockedAt,
	}
}

func (a *Achievement) UserID() uuid.UUID     { return a.userID }
func (a *Achievement) HabitID() *uuid.UUID   { return copyID(a.habitID) }
func (a *Achievement) Name() string          { return a.name }
func (a *Achievement) Description() string   { return a.description }
func (a *Achievement) Icon() string          { return a.icon }
func (a *Achievement) Type() Type            { return a.typ }
func (a *Achievement) UnlockedAt() time.Time { return a.unlockedAt }

// Identity returns the achievement's natural key.
func (a *Achievement) Identity() Identity {
	return Identity{UserID: a.userID, Name: a.name, Type: a.typ}
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
