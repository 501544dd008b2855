package domain

import (
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

const (
	AggregateType = "Achievement"

	RoutingKeyAchievementUnlocked = "achievements.unlocked"
)

// AchievementUnlocked is emitted once per newly stored achievement.
type AchievementUnlocked struct {
	sharedDomain.BaseEvent
	UserID     uuid.UUID  `json:"user_id"`
	HabitID    *uuid.UUID `json:"habit_id,omitempty"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Icon       string     `json:"icon"`
	UnlockedAt time.Time  `json:"unlocked_at"`
}

// NewAchievementUnlocked creates an AchievementUnlocked event.
func NewAchievementUnlocked(a *Achievement) AchievementUnlocked {
	return AchievementUnlocked{
		BaseEvent:  sharedDomain.NewBaseEvent(a.ID(), AggregateType, RoutingKeyAchievementUnlocked),
		UserID:     a.userID,
		HabitID:    copyID(a.habitID),
		Name:       a.name,
		Type:       string(a.typ),
		Icon:       a.icon,
		UnlockedAt: a.unlockedAt,
	}
}
