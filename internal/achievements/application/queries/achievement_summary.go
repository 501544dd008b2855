package queries

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/achievements/domain"
	identityDomain "github.com/jplande/HabitTracker/internal/identity/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// TotalPossible is the advertised size of the achievement collection.
const TotalPossible = 50

// UserFinder loads users.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error)
}

// ProgressCounter reports how many progress entries a user has logged.
type ProgressCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// GetAchievementSummaryQuery asks for a user's achievement summary.
type GetAchievementSummaryQuery struct {
	UserID uuid.UUID
}

// Rarity splits the collection into tiers of ten.
type Rarity struct {
	Common    int `json:"common"`
	Rare      int `json:"rare"`
	Epic      int `json:"epic"`
	Legendary int `json:"legendary"`
}

// AchievementSummary aggregates a user's achievements.
type AchievementSummary struct {
	UserID               uuid.UUID      `json:"user_id"`
	UserName             string         `json:"user_name"`
	Total                int            `json:"total"`
	TotalPossible        int            `json:"total_possible"`
	CompletionPercentage float64        `json:"completion_percentage"`
	CountsByType         map[string]int `json:"counts_by_type"`
	LastAchievementName  string         `json:"last_achievement_name,omitempty"`
	LastAchievementAt    *time.Time     `json:"last_achievement_at,omitempty"`
	ThisWeek             int            `json:"this_week"`
	ThisMonth            int            `json:"this_month"`
	Rarity               Rarity         `json:"rarity"`
	ProgressToNext       float64        `json:"progress_to_next"`
}

// GetAchievementSummaryHandler handles GetAchievementSummaryQuery.
type GetAchievementSummaryHandler struct {
	users    UserFinder
	repo     domain.Repository
	progress ProgressCounter
	now      func() time.Time
}

// NewGetAchievementSummaryHandler creates a new GetAchievementSummaryHandler.
func NewGetAchievementSummaryHandler(users UserFinder, repo domain.Repository, progress ProgressCounter) *GetAchievementSummaryHandler {
	return &GetAchievementSummaryHandler{users: users, repo: repo, progress: progress, now: time.Now}
}

// Handle executes the query.
func (h *GetAchievementSummaryHandler) Handle(ctx context.Context, query GetAchievementSummaryQuery) (*AchievementSummary, error) {
	user, err := h.users.FindByID(ctx, query.UserID)
	if err != nil {
		return nil, transient("load user", err)
	}
	if user == nil {
		return nil, identityDomain.ErrUserNotFound
	}

	achievements, err := h.repo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, transient("list achievements", err)
	}
	progress, err := h.progress.CountByUser(ctx, query.UserID)
	if err != nil {
		return nil, transient("count progress", err)
	}

	now := h.now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	total := len(achievements)
	summary := &AchievementSummary{
		UserID:               user.ID(),
		UserName:             user.Name().String(),
		Total:                total,
		TotalPossible:        TotalPossible,
		CompletionPercentage: round2(float64(total) / TotalPossible * 100),
		CountsByType:         make(map[string]int),
		Rarity:               rarityOf(total),
		ProgressToNext:       progressToNext(progress),
	}

	var last *domain.Achievement
	for _, a := range achievements {
		summary.CountsByType[string(a.Type())]++
		if last == nil || a.UnlockedAt().After(last.UnlockedAt()) {
			last = a
		}
		if a.UnlockedAt().After(weekAgo) {
			summary.ThisWeek++
		}
		if a.UnlockedAt().After(monthAgo) {
			summary.ThisMonth++
		}
	}
	if last != nil {
		at := last.UnlockedAt()
		summary.LastAchievementName = last.Name()
		summary.LastAchievementAt = &at
	}
	return summary, nil
}

func rarityOf(total int) Rarity {
	return Rarity{
		Common:    min(total, 10),
		Rare:      min(max(0, total-10), 10),
		Epic:      min(max(0, total-20), 10),
		Legendary: max(0, total-30),
	}
}

// progressToNext is the share of the next multiple of ten progress entries
// already logged.
func progressToNext(progress int) float64 {
	next := (progress/10 + 1) * 10
	return float64(progress) / float64(next) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func transient(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", sharedDomain.ErrTransient, op, err)
}
