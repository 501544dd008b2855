package queries

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	"github.com/jplande/HabitTracker/internal/insights/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/cache"
)

// ChartType names a chart payload shape.
type ChartType string

const (
	ChartLine    ChartType = "line"
	ChartBar     ChartType = "bar"
	ChartWeekly  ChartType = "weekly"
	ChartHeatmap ChartType = "heatmap"
)

// weeklySpan is the look-back of the weekly chart, eight weeks.
const weeklySpan = 56

// ParseChartType validates a chart type name.
func ParseChartType(s string) (ChartType, error) {
	switch t := ChartType(s); t {
	case ChartLine, ChartBar, ChartWeekly, ChartHeatmap:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownChartType, s)
}

// GetChartDataQuery asks for one chart of a habit.
type GetChartDataQuery struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
	Type    string
	Days    int
}

// Dataset is one labelled series of a chart.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is a data-only chart payload. Heatmap charts fill Heatmap,
// TotalDays and ActiveDays; the others fill Labels and Datasets.
type ChartData struct {
	Type       ChartType      `json:"type"`
	Labels     []string       `json:"labels,omitempty"`
	Datasets   []Dataset      `json:"datasets,omitempty"`
	Heatmap    map[string]int `json:"heatmap,omitempty"`
	TotalDays  int            `json:"total_days,omitempty"`
	ActiveDays int            `json:"active_days,omitempty"`
}

// GetChartDataHandler handles the GetChartDataQuery.
type GetChartDataHandler struct {
	habitRepo    habitsDomain.HabitRepository
	progressRepo habitsDomain.ProgressRepository
	cache        *cache.Coordinator
	opts         options
}

// NewGetChartDataHandler creates a new GetChartDataHandler.
func NewGetChartDataHandler(
	habitRepo habitsDomain.HabitRepository,
	progressRepo habitsDomain.ProgressRepository,
	coordinator *cache.Coordinator,
	opts ...Option,
) *GetChartDataHandler {
	return &GetChartDataHandler{
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		cache:        coordinator,
		opts:         newOptions(opts),
	}
}

// Handle executes the GetChartDataQuery.
func (h *GetChartDataHandler) Handle(ctx context.Context, query GetChartDataQuery) (*ChartData, error) {
	chartType, err := ParseChartType(query.Type)
	if err != nil {
		return nil, err
	}
	days := resolveDays(query.Days)
	if chartType == ChartWeekly {
		days = weeklySpan
	}
	today := h.opts.today()
	window, err := h.window(chartType, today, days)
	if err != nil {
		return nil, err
	}

	habit, err := loadOwnedHabit(ctx, h.habitRepo, query.UserID, query.HabitID)
	if err != nil {
		return nil, err
	}

	chart, err := cache.GetOrCompute(ctx, h.cache, cache.ChartKey(habit.ID().String(), string(chartType), days, today.String()),
		func(ctx context.Context) (ChartData, error) {
			return timed(h.opts, "chart_data", func() (ChartData, error) {
				entries, err := h.progressRepo.FindByHabitBetween(ctx, habit.ID(), window)
				if err != nil {
					return ChartData{}, transient("load progress", err)
				}
				switch chartType {
				case ChartLine:
					return lineChart(habit, window, entries), nil
				case ChartBar:
					return barChart(habit, window, entries), nil
				case ChartWeekly:
					return weeklyChart(entries), nil
				default:
					return heatmapChart(window, entries), nil
				}
			})
		})
	if err != nil {
		return nil, err
	}
	return &chart, nil
}

func (h *GetChartDataHandler) window(chartType ChartType, today sharedDomain.Day, days int) (sharedDomain.Window, error) {
	if chartType == ChartWeekly {
		return sharedDomain.NewWindow(today.AddDays(-weeklySpan), today)
	}
	return sharedDomain.TrailingWindow(today, days)
}

// dailySeries returns one label and one value per window day, 0 when the
// day has no entry.
func dailySeries(window sharedDomain.Window, entries []*habitsDomain.ProgressEntry) ([]string, []float64) {
	byDay := make(map[sharedDomain.Day]float64, len(entries))
	for _, e := range entries {
		byDay[e.Day()] = e.Value()
	}
	n := window.Days()
	labels := make([]string, 0, n)
	values := make([]float64, 0, n)
	for d := window.Start; !d.After(window.End); d = d.AddDays(1) {
		labels = append(labels, domain.ChartLabel(d))
		values = append(values, byDay[d])
	}
	return labels, values
}

func lineChart(habit *habitsDomain.Habit, window sharedDomain.Window, entries []*habitsDomain.ProgressEntry) ChartData {
	labels, values := dailySeries(window, entries)
	chart := ChartData{
		Type:     ChartLine,
		Labels:   labels,
		Datasets: []Dataset{{Label: habit.Title(), Data: values}},
	}
	if habit.HasTarget() {
		target := habit.TargetValue()
		line := make([]float64, len(labels))
		for i := range line {
			line[i] = target
		}
		chart.Datasets = append(chart.Datasets, Dataset{
			Label: fmt.Sprintf("Objectif (%s %s)", strconv.FormatFloat(target, 'f', -1, 64), habit.Unit()),
			Data:  line,
		})
	}
	return chart
}

func barChart(habit *habitsDomain.Habit, window sharedDomain.Window, entries []*habitsDomain.ProgressEntry) ChartData {
	labels, values := dailySeries(window, entries)
	return ChartData{
		Type:     ChartBar,
		Labels:   labels,
		Datasets: []Dataset{{Label: fmt.Sprintf("%s (%s)", habit.Title(), habit.Unit()), Data: values}},
	}
}

func weeklyChart(entries []*habitsDomain.ProgressEntry) ChartData {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, e := range entries {
		key := domain.WeekKey(e.Day())
		sums[key] += e.Value()
		counts[key]++
	}
	weeks := make([]string, 0, len(counts))
	for k := range counts {
		weeks = append(weeks, k)
	}
	sort.Strings(weeks)

	averages := make([]float64, len(weeks))
	for i, w := range weeks {
		averages[i] = domain.Round2(sums[w] / float64(counts[w]))
	}
	return ChartData{
		Type:     ChartWeekly,
		Labels:   weeks,
		Datasets: []Dataset{{Label: "Moyenne hebdomadaire", Data: averages}},
	}
}

func heatmapChart(window sharedDomain.Window, entries []*habitsDomain.ProgressEntry) ChartData {
	logged := make(map[sharedDomain.Day]bool, len(entries))
	for _, e := range entries {
		logged[e.Day()] = true
	}
	heatmap := make(map[string]int, window.Days())
	active := 0
	for d := window.Start; !d.After(window.End); d = d.AddDays(1) {
		if logged[d] {
			heatmap[d.String()] = 1
			active++
		} else {
			heatmap[d.String()] = 0
		}
	}
	return ChartData{
		Type:       ChartHeatmap,
		Heatmap:    heatmap,
		TotalDays:  window.Days(),
		ActiveDays: active,
	}
}
