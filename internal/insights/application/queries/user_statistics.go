package queries

import (
	"context"
	"sort"

	"github.com/google/uuid"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	"github.com/jplande/HabitTracker/internal/insights/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/cache"
	"golang.org/x/sync/errgroup"
)

// bestWeekSpan is how far back, in days, the best week is searched.
const bestWeekSpan = 8 * 7

// NoBestWeek is reported when no progress exists in the search span.
const NoBestWeek = "aucune"

// GetUserStatisticsQuery asks for a user's statistics over the trailing Days
// days. Zero Days means DefaultWindowDays.
type GetUserStatisticsQuery struct {
	UserID uuid.UUID
	Days   int
}

// UserStatistics summarises a user's activity.
type UserStatistics struct {
	WindowDays            int     `json:"window_days"`
	TotalHabits           int     `json:"total_habits"`
	ActiveHabits          int     `json:"active_habits"`
	TotalProgress         int     `json:"total_progress"`
	TotalAchievements     int     `json:"total_achievements"`
	PeriodProgress        int     `json:"period_progress"`
	AverageProgressPerDay float64 `json:"average_progress_per_day"`
	CurrentStreak         int     `json:"current_streak"`
	BestWeek              string  `json:"best_week"`
	Consistency           float64 `json:"consistency"`
}

// GetUserStatisticsHandler handles the GetUserStatisticsQuery.
type GetUserStatisticsHandler struct {
	users        UserFinder
	habitRepo    habitsDomain.HabitRepository
	progressRepo habitsDomain.ProgressRepository
	achievements AchievementCounter
	cache        *cache.Coordinator
	opts         options
}

// NewGetUserStatisticsHandler creates a new GetUserStatisticsHandler.
func NewGetUserStatisticsHandler(
	users UserFinder,
	habitRepo habitsDomain.HabitRepository,
	progressRepo habitsDomain.ProgressRepository,
	achievements AchievementCounter,
	coordinator *cache.Coordinator,
	opts ...Option,
) *GetUserStatisticsHandler {
	return &GetUserStatisticsHandler{
		users:        users,
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		achievements: achievements,
		cache:        coordinator,
		opts:         newOptions(opts),
	}
}

// Handle executes the GetUserStatisticsQuery.
func (h *GetUserStatisticsHandler) Handle(ctx context.Context, query GetUserStatisticsQuery) (*UserStatistics, error) {
	days := resolveDays(query.Days)
	today := h.opts.today()
	window, err := sharedDomain.TrailingWindow(today, days)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, h.users, query.UserID); err != nil {
		return nil, err
	}

	stats, err := cache.GetOrCompute(ctx, h.cache, cache.UserStatsKey(query.UserID.String(), days, today.String()),
		func(ctx context.Context) (UserStatistics, error) {
			return timed(h.opts, "user_statistics", func() (UserStatistics, error) {
				return h.compute(ctx, query.UserID, window, today)
			})
		})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (h *GetUserStatisticsHandler) compute(ctx context.Context, userID uuid.UUID, window sharedDomain.Window, today sharedDomain.Day) (UserStatistics, error) {
	var (
		stats       = UserStatistics{WindowDays: window.Days()}
		active      []*habitsDomain.Habit
		period      []*habitsDomain.ProgressEntry
		recent      []*habitsDomain.ProgressEntry
		activeDates []sharedDomain.Day
	)

	weeks, err := sharedDomain.TrailingWindow(today, bestWeekSpan+1)
	if err != nil {
		return stats, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	g.Go(func() error {
		n, err := h.habitRepo.CountByUser(gctx, userID, false)
		if err != nil {
			return transient("count habits", err)
		}
		stats.TotalHabits = n
		return nil
	})
	g.Go(func() error {
		habits, err := h.habitRepo.FindByUser(gctx, userID, true)
		if err != nil {
			return transient("load active habits", err)
		}
		active = habits
		return nil
	})
	g.Go(func() error {
		n, err := h.progressRepo.CountByUser(gctx, userID)
		if err != nil {
			return transient("count progress", err)
		}
		stats.TotalProgress = n
		return nil
	})
	g.Go(func() error {
		n, err := h.achievements.CountByUser(gctx, userID)
		if err != nil {
			return transient("count achievements", err)
		}
		stats.TotalAchievements = n
		return nil
	})
	g.Go(func() error {
		entries, err := h.progressRepo.FindByUserBetween(gctx, userID, window)
		if err != nil {
			return transient("load period progress", err)
		}
		period = entries
		return nil
	})
	g.Go(func() error {
		entries, err := h.progressRepo.FindByUserBetween(gctx, userID, weeks)
		if err != nil {
			return transient("load recent progress", err)
		}
		recent = entries
		return nil
	})
	g.Go(func() error {
		dates, err := h.progressRepo.DatesForUser(gctx, userID)
		if err != nil {
			return transient("load progress dates", err)
		}
		activeDates = dates
		return nil
	})
	if err := g.Wait(); err != nil {
		return UserStatistics{}, err
	}

	stats.ActiveHabits = len(active)
	stats.PeriodProgress = len(period)
	stats.AverageProgressPerDay = float64(len(period)) / float64(window.Days())
	stats.CurrentStreak = domain.CurrentStreak(activeDates, today)
	stats.BestWeek = bestWeek(recent)
	stats.Consistency = userConsistency(window, active, period)
	return stats, nil
}

// userConsistency averages each active habit's completion rate over window.
func userConsistency(window sharedDomain.Window, active []*habitsDomain.Habit, period []*habitsDomain.ProgressEntry) float64 {
	byHabit := make(map[uuid.UUID][]sharedDomain.Day, len(active))
	for _, e := range period {
		byHabit[e.HabitID()] = append(byHabit[e.HabitID()], e.Day())
	}
	scores := make([]float64, len(active))
	for i, habit := range active {
		scores[i] = domain.Consistency(window, byHabit[habit.ID()])
	}
	return domain.MeanConsistency(scores)
}

// bestWeek returns the week key with the most entries. Ties go to the
// earliest week.
func bestWeek(entries []*habitsDomain.ProgressEntry) string {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[domain.WeekKey(e.Day())]++
	}
	if len(counts) == 0 {
		return NoBestWeek
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}
