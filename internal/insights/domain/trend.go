package domain

import (
	"math"
	"sort"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// Trend describes the direction of values over a window.
type Trend string

const (
	TrendPositive     Trend = "positive"
	TrendNegative     Trend = "negative"
	TrendStable       Trend = "stable"
	TrendInsufficient Trend = "insufficient_data"
)

// trendThreshold is the mean difference between halves below which a trend
// is considered stable.
const trendThreshold = 0.1

// Sample is one progress value on one day.
type Sample struct {
	Day   sharedDomain.Day
	Value float64
}

// Analysis is the result of analysing the samples of a window.
type Analysis struct {
	Entries         int
	CompletionRate  float64
	Total           float64
	Average         float64
	Min             float64
	Max             float64
	Median          float64
	Trend           Trend
	Improvement     float64
	TargetReachRate float64
}

// Analyze computes the window statistics of samples. Samples outside the
// window still contribute to values but not to the completion rate.
func Analyze(window sharedDomain.Window, samples []Sample, target *float64) Analysis {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day.Before(sorted[j].Day) })

	a := Analysis{
		Entries:         len(sorted),
		CompletionRate:  CompletionRate(window, sorted),
		Trend:           trendOf(sorted),
		Improvement:     improvementOf(sorted),
		TargetReachRate: targetReachRate(sorted, target),
	}
	if len(sorted) == 0 {
		return a
	}

	values := make([]float64, len(sorted))
	a.Min, a.Max = math.Inf(1), math.Inf(-1)
	for i, s := range sorted {
		values[i] = s.Value
		a.Total += s.Value
		a.Min = math.Min(a.Min, s.Value)
		a.Max = math.Max(a.Max, s.Value)
	}
	a.Average = a.Total / float64(len(values))
	a.Median = median(values)
	return a
}

// CompletionRate is the share of window days with at least one sample, in
// percent.
func CompletionRate(window sharedDomain.Window, samples []Sample) float64 {
	total := window.Days()
	if total <= 0 {
		return 0
	}
	days := make(map[sharedDomain.Day]struct{}, len(samples))
	for _, s := range samples {
		if window.Contains(s.Day) {
			days[s.Day] = struct{}{}
		}
	}
	rate := float64(len(days)) / float64(total) * 100
	return math.Min(rate, 100)
}

func trendOf(sorted []Sample) Trend {
	if len(sorted) < 2 {
		return TrendInsufficient
	}
	mid := len(sorted) / 2
	diff := mean(sorted[mid:]) - mean(sorted[:mid])
	switch {
	case diff > trendThreshold:
		return TrendPositive
	case diff < -trendThreshold:
		return TrendNegative
	default:
		return TrendStable
	}
}

func improvementOf(sorted []Sample) float64 {
	if len(sorted) < 2 {
		return 0
	}
	first, last := sorted[0].Value, sorted[len(sorted)-1].Value
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

func targetReachRate(samples []Sample, target *float64) float64 {
	if target == nil || *target <= 0 || len(samples) == 0 {
		return 0
	}
	reached := 0
	for _, s := range samples {
		if s.Value >= *target {
			reached++
		}
	}
	return float64(reached) / float64(len(samples)) * 100
}

func mean(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s.Value
	}
	return sum / float64(len(samples))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
