package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/achievements/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// NewFor is how long an achievement is flagged as new after its unlock.
const NewFor = 3 * 24 * time.Hour

// AchievementDTO is the read model of an achievement.
type AchievementDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	HabitID     *uuid.UUID `json:"habit_id,omitempty"`
	UnlockedAt  time.Time  `json:"unlocked_at"`
	IsNew       bool       `json:"is_new"`
}

func toDTO(a *domain.Achievement, now time.Time) AchievementDTO {
	return AchievementDTO{
		ID:          a.ID(),
		Name:        a.Name(),
		Description: a.Description(),
		Icon:        a.Icon(),
		Type:        string(a.Type()),
		Category:    a.Type().Category(),
		HabitID:     a.HabitID(),
		UnlockedAt:  a.UnlockedAt(),
		IsNew:       a.UnlockedAt().After(now.Add(-NewFor)),
	}
}

// ListAchievementsQuery lists a user's achievements, optionally restricted
// to one type and to those unlocked in the last RecentDays days.
type ListAchievementsQuery struct {
	UserID     uuid.UUID
	Type       string
	RecentDays int
}

// ListAchievementsHandler handles ListAchievementsQuery.
type ListAchievementsHandler struct {
	repo domain.Repository
	now  func() time.Time
}

// NewListAchievementsHandler creates a new ListAchievementsHandler.
func NewListAchievementsHandler(repo domain.Repository) *ListAchievementsHandler {
	return &ListAchievementsHandler{repo: repo, now: time.Now}
}

// Handle executes the query. Achievements are returned most recent first.
func (h *ListAchievementsHandler) Handle(ctx context.Context, query ListAchievementsQuery) ([]AchievementDTO, error) {
	if query.RecentDays < 0 {
		return nil, fmt.Errorf("%w: recent days cannot be negative", sharedDomain.ErrInvalidArgument)
	}
	now := h.now()

	var (
		achievements []*domain.Achievement
		err          error
	)
	switch {
	case query.Type != "":
		typ, perr := domain.ParseType(query.Type)
		if perr != nil {
			return nil, perr
		}
		achievements, err = h.repo.FindByUserAndType(ctx, query.UserID, typ)
	case query.RecentDays > 0:
		achievements, err = h.repo.FindByUserSince(ctx, query.UserID, now.AddDate(0, 0, -query.RecentDays))
	default:
		achievements, err = h.repo.FindByUser(ctx, query.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list achievements: %v", sharedDomain.ErrTransient, err)
	}

	since := now.AddDate(0, 0, -query.RecentDays)
	dtos := make([]AchievementDTO, 0, len(achievements))
	for _, a := range achievements {
		if query.Type != "" && query.RecentDays > 0 && a.UnlockedAt().Before(since) {
			continue
		}
		dtos = append(dtos, toDTO(a, now))
	}
	return dtos, nil
}
