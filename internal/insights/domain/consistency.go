package domain

import (
	"sort"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// DefaultConsistencyDays is the trailing window used to score consistency.
const DefaultConsistencyDays = 30

// Consistency is the completion rate of the given days over window.
func Consistency(window sharedDomain.Window, days []sharedDomain.Day) float64 {
	samples := make([]Sample, len(days))
	for i, d := range days {
		samples[i] = Sample{Day: d}
	}
	return CompletionRate(window, samples)
}

// MeanConsistency averages per-habit scores, or 0 when there are none.
func MeanConsistency(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// RankByConsistency orders items by score, highest first. Equal scores keep
// their input order.
func RankByConsistency[T any](items []T, score func(T) float64) {
	sort.SliceStable(items, func(i, j int) bool { return score(items[i]) > score(items[j]) })
}
