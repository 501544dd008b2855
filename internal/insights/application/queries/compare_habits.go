package queries

import (
	"context"

	"github.com/google/uuid"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	"github.com/jplande/HabitTracker/internal/insights/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/cache"
	"golang.org/x/sync/errgroup"
)

// CompareHabitsQuery ranks a user's active habits by consistency.
type CompareHabitsQuery struct {
	UserID uuid.UUID
}

// HabitComparison is one row of a comparison.
type HabitComparison struct {
	HabitID       uuid.UUID `json:"habit_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	ProgressCount int       `json:"progress_count"`
	Consistency   float64   `json:"consistency"`
	CurrentStreak int       `json:"current_streak"`
}

// Comparison ranks habits by consistency over the last 30 days.
type Comparison struct {
	Habits             []HabitComparison `json:"habits"`
	BestHabit          *HabitComparison  `json:"best_habit,omitempty"`
	TotalHabits        int               `json:"total_habits"`
	AverageConsistency float64           `json:"average_consistency"`
}

// CompareHabitsHandler handles the CompareHabitsQuery.
type CompareHabitsHandler struct {
	users        UserFinder
	habitRepo    habitsDomain.HabitRepository
	progressRepo habitsDomain.ProgressRepository
	cache        *cache.Coordinator
	opts         options
}

// NewCompareHabitsHandler creates a new CompareHabitsHandler.
func NewCompareHabitsHandler(
	users UserFinder,
	habitRepo habitsDomain.HabitRepository,
	progressRepo habitsDomain.ProgressRepository,
	coordinator *cache.Coordinator,
	opts ...Option,
) *CompareHabitsHandler {
	return &CompareHabitsHandler{
		users:        users,
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		cache:        coordinator,
		opts:         newOptions(opts),
	}
}

// Handle executes the CompareHabitsQuery.
func (h *CompareHabitsHandler) Handle(ctx context.Context, query CompareHabitsQuery) (*Comparison, error) {
	if err := requireUser(ctx, h.users, query.UserID); err != nil {
		return nil, err
	}

	today := h.opts.today()
	comparison, err := cache.GetOrCompute(ctx, h.cache, cache.UserCompareKey(query.UserID.String(), today.String()),
		func(ctx context.Context) (Comparison, error) {
			return timed(h.opts, "compare_habits", func() (Comparison, error) {
				return h.compute(ctx, query.UserID, today)
			})
		})
	if err != nil {
		return nil, err
	}
	return &comparison, nil
}

func (h *CompareHabitsHandler) compute(ctx context.Context, userID uuid.UUID, today sharedDomain.Day) (Comparison, error) {
	window, err := sharedDomain.TrailingWindow(today, domain.DefaultConsistencyDays)
	if err != nil {
		return Comparison{}, err
	}

	habits, err := h.habitRepo.FindByUser(ctx, userID, true)
	if err != nil {
		return Comparison{}, transient("load active habits", err)
	}

	rows := make([]HabitComparison, len(habits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, habit := range habits {
		g.Go(func() error {
			count, err := h.progressRepo.CountByHabit(gctx, habit.ID())
			if err != nil {
				return transient("count habit progress", err)
			}
			dates, err := h.progressRepo.DatesForHabit(gctx, habit.ID())
			if err != nil {
				return transient("load habit dates", err)
			}
			rows[i] = HabitComparison{
				HabitID:       habit.ID(),
				Title:         habit.Title(),
				Category:      string(habit.Category()),
				ProgressCount: count,
				Consistency:   domain.Consistency(window, dates),
				CurrentStreak: domain.CurrentStreak(dates, today),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}

	domain.RankByConsistency(rows, func(r HabitComparison) float64 { return r.Consistency })

	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = r.Consistency
	}

	comparison := Comparison{
		Habits:             rows,
		TotalHabits:        len(rows),
		AverageConsistency: domain.Round2(domain.MeanConsistency(scores)),
	}
	if len(rows) > 0 {
		best := rows[0]
		comparison.BestHabit = &best
	}
	return comparison, nil
}
