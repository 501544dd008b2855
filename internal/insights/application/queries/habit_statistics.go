package queries

import (
	"context"

	"github.com/google/uuid"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	"github.com/jplande/HabitTracker/internal/insights/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/cache"
)

// GetHabitStatisticsQuery asks for the statistics of one habit over the
// trailing Days days. Zero Days means DefaultWindowDays.
type GetHabitStatisticsQuery struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
	Days    int
}

// HabitStatistics is the windowed analysis of one habit.
type HabitStatistics struct {
	HabitID     uuid.UUID `json:"habit_id"`
	HabitTitle  string    `json:"habit_title"`
	HabitUnit   string    `json:"habit_unit"`
	HabitTarget *float64  `json:"habit_target,omitempty"`
	WindowDays  int       `json:"window_days"`

	TotalEntries   int     `json:"total_entries"`
	CompletionRate float64 `json:"completion_rate"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`

	TotalValue   float64 `json:"total_value"`
	AverageValue float64 `json:"average_value"`
	MinValue     float64 `json:"min_value"`
	MaxValue     float64 `json:"max_value"`
	MedianValue  float64 `json:"median_value"`

	Trend           string  `json:"trend"`
	Improvement     float64 `json:"improvement"`
	TargetReachRate float64 `json:"target_reach_rate"`

	LastProgressDate      string `json:"last_progress_date,omitempty"`
	DaysSinceLastProgress int    `json:"days_since_last_progress"`
}

// GetHabitStatisticsHandler handles the GetHabitStatisticsQuery.
type GetHabitStatisticsHandler struct {
	habitRepo    habitsDomain.HabitRepository
	progressRepo habitsDomain.ProgressRepository
	cache        *cache.Coordinator
	opts         options
}

// NewGetHabitStatisticsHandler creates a new GetHabitStatisticsHandler.
func NewGetHabitStatisticsHandler(
	habitRepo habitsDomain.HabitRepository,
	progressRepo habitsDomain.ProgressRepository,
	coordinator *cache.Coordinator,
	opts ...Option,
) *GetHabitStatisticsHandler {
	return &GetHabitStatisticsHandler{
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		cache:        coordinator,
		opts:         newOptions(opts),
	}
}

// Handle executes the GetHabitStatisticsQuery. Ownership is checked before
// the cache is consulted.
func (h *GetHabitStatisticsHandler) Handle(ctx context.Context, query GetHabitStatisticsQuery) (*HabitStatistics, error) {
	days := resolveDays(query.Days)
	today := h.opts.today()
	window, err := sharedDomain.TrailingWindow(today, days)
	if err != nil {
		return nil, err
	}

	habit, err := loadOwnedHabit(ctx, h.habitRepo, query.UserID, query.HabitID)
	if err != nil {
		return nil, err
	}

	stats, err := cache.GetOrCompute(ctx, h.cache, cache.HabitStatsKey(habit.ID().String(), days, today.String()),
		func(ctx context.Context) (HabitStatistics, error) {
			return timed(h.opts, "habit_statistics", func() (HabitStatistics, error) {
				return h.compute(ctx, habit, window, today)
			})
		})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (h *GetHabitStatisticsHandler) compute(ctx context.Context, habit *habitsDomain.Habit, window sharedDomain.Window, today sharedDomain.Day) (HabitStatistics, error) {
	entries, err := h.progressRepo.FindByHabitBetween(ctx, habit.ID(), window)
	if err != nil {
		return HabitStatistics{}, transient("load progress", err)
	}
	dates, err := h.progressRepo.DatesForHabit(ctx, habit.ID())
	if err != nil {
		return HabitStatistics{}, transient("load progress dates", err)
	}
	latest, err := h.progressRepo.LatestForHabit(ctx, habit.ID())
	if err != nil {
		return HabitStatistics{}, transient("load latest progress", err)
	}

	analysis := domain.Analyze(window, toSamples(entries), habit.Target())

	stats := HabitStatistics{
		HabitID:               habit.ID(),
		HabitTitle:            habit.Title(),
		HabitUnit:             habit.Unit(),
		HabitTarget:           habit.Target(),
		WindowDays:            window.Days(),
		TotalEntries:          analysis.Entries,
		CompletionRate:        analysis.CompletionRate,
		CurrentStreak:         domain.CurrentStreak(dates, today),
		LongestStreak:         domain.LongestStreak(dates),
		TotalValue:            analysis.Total,
		AverageValue:          analysis.Average,
		MinValue:              analysis.Min,
		MaxValue:              analysis.Max,
		MedianValue:           analysis.Median,
		Trend:                 string(analysis.Trend),
		Improvement:           analysis.Improvement,
		TargetReachRate:       analysis.TargetReachRate,
		DaysSinceLastProgress: -1,
	}
	if len(entries) > 0 {
		last := entries[0].Day()
		for _, e := range entries[1:] {
			if e.Day().After(last) {
				last = e.Day()
			}
		}
		stats.LastProgressDate = last.String()
	}
	if latest != nil {
		stats.DaysSinceLastProgress = latest.Day().DaysUntil(today)
	}
	return stats, nil
}

func toSamples(entries []*habitsDomain.ProgressEntry) []domain.Sample {
	samples := make([]domain.Sample, len(entries))
	for i, e := range entries {
		samples[i] = domain.Sample{Day: e.Day(), Value: e.Value()}
	}
	return samples
}
