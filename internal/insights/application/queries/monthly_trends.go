package queries

import (
	"context"
	"sort"

	"github.com/google/uuid"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	"github.com/jplande/HabitTracker/internal/insights/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/cache"
)

// trendMonths is how many calendar months the monthly trend covers.
const trendMonths = 6

// Overall directions of monthly activity.
const (
	MonthlyGrowing      = "croissante"
	MonthlyDeclining    = "décroissante"
	MonthlyStable       = "stable"
	MonthlyInsufficient = "insufficient_data"
	NoActiveMonth       = "aucun"
)

// GetMonthlyTrendsQuery asks for the last six months of a user's activity.
type GetMonthlyTrendsQuery struct {
	UserID uuid.UUID
}

// MonthlyTrends describes month-over-month activity.
type MonthlyTrends struct {
	MonthlyProgress map[string]int     `json:"monthly_progress"`
	MonthlyAverages map[string]float64 `json:"monthly_averages"`
	OverallTrend    string             `json:"overall_trend"`
	MostActiveMonth string             `json:"most_active_month"`
	GrowthRate      float64            `json:"growth_rate"`
}

// GetMonthlyTrendsHandler handles the GetMonthlyTrendsQuery.
type GetMonthlyTrendsHandler struct {
	users        UserFinder
	progressRepo habitsDomain.ProgressRepository
	cache        *cache.Coordinator
	opts         options
}

// NewGetMonthlyTrendsHandler creates a new GetMonthlyTrendsHandler.
func NewGetMonthlyTrendsHandler(users UserFinder, progressRepo habitsDomain.ProgressRepository, coordinator *cache.Coordinator, opts ...Option) *GetMonthlyTrendsHandler {
	return &GetMonthlyTrendsHandler{
		users:        users,
		progressRepo: progressRepo,
		cache:        coordinator,
		opts:         newOptions(opts),
	}
}

// Handle executes the GetMonthlyTrendsQuery.
func (h *GetMonthlyTrendsHandler) Handle(ctx context.Context, query GetMonthlyTrendsQuery) (*MonthlyTrends, error) {
	if err := requireUser(ctx, h.users, query.UserID); err != nil {
		return nil, err
	}

	today := h.opts.today()
	trends, err := cache.GetOrCompute(ctx, h.cache, cache.UserTrendsKey(query.UserID.String(), today.String()),
		func(ctx context.Context) (MonthlyTrends, error) {
			return timed(h.opts, "monthly_trends", func() (MonthlyTrends, error) {
				return h.compute(ctx, query.UserID, today)
			})
		})
	if err != nil {
		return nil, err
	}
	return &trends, nil
}

func (h *GetMonthlyTrendsHandler) compute(ctx context.Context, userID uuid.UUID, today sharedDomain.Day) (MonthlyTrends, error) {
	start := sharedDomain.NewDay(today.Time().AddDate(0, -trendMonths, 0))
	window, err := sharedDomain.NewWindow(start, today)
	if err != nil {
		return MonthlyTrends{}, err
	}

	entries, err := h.progressRepo.FindByUserBetween(ctx, userID, window)
	if err != nil {
		return MonthlyTrends{}, transient("load progress", err)
	}

	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, e := range entries {
		key := domain.MonthKey(e.Day())
		counts[key]++
		sums[key] += e.Value()
	}

	averages := make(map[string]float64, trendMonths)
	for i := 0; i < trendMonths; i++ {
		first := sharedDomain.NewDay(today.Time().AddDate(0, -i, 1-today.Time().Day()))
		key := domain.MonthKey(first)
		if counts[key] > 0 {
			averages[key] = domain.Round2(sums[key] / float64(counts[key]))
		} else {
			averages[key] = 0
		}
	}

	months := make([]string, 0, len(counts))
	for k := range counts {
		months = append(months, k)
	}
	sort.Strings(months)

	return MonthlyTrends{
		MonthlyProgress: counts,
		MonthlyAverages: averages,
		OverallTrend:    overallTrend(months, counts),
		MostActiveMonth: mostActiveMonth(months, counts),
		GrowthRate:      growthRate(months, counts),
	}, nil
}

func overallTrend(months []string, counts map[string]int) string {
	if len(months) < 2 {
		return MonthlyInsufficient
	}
	mid := len(months) / 2
	var first, second int
	for _, m := range months[:mid] {
		first += counts[m]
	}
	for _, m := range months[mid:] {
		second += counts[m]
	}
	switch {
	case float64(second) > float64(first)*1.1:
		return MonthlyGrowing
	case float64(second) < float64(first)*0.9:
		return MonthlyDeclining
	default:
		return MonthlyStable
	}
}

// mostActiveMonth breaks ties in favour of the earlier month.
func mostActiveMonth(months []string, counts map[string]int) string {
	if len(months) == 0 {
		return NoActiveMonth
	}
	best := months[0]
	for _, m := range months[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}
	return best
}

func growthRate(months []string, counts map[string]int) float64 {
	if len(months) < 2 {
		return 0
	}
	first, last := counts[months[0]], counts[months[len(months)-1]]
	if first == 0 {
		return 0
	}
	return float64(last-first) / float64(first) * 100
}
