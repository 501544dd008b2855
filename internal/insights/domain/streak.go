package domain

import (
	"sort"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// MaxStreakDays caps the backward walk of CurrentStreak.
const MaxStreakDays = 365

// CurrentStreak counts consecutive days with activity ending today. A day
// without activity today means no running streak.
func CurrentStreak(days []sharedDomain.Day, today sharedDomain.Day) int {
	if len(days) == 0 {
		return 0
	}

	set := make(map[sharedDomain.Day]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}

	streak := 0
	check := today
	for streak < MaxStreakDays {
		if _, ok := set[check]; !ok {
			break
		}
		streak++
		check = check.AddDays(-1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days. Duplicates are
// counted once.
func LongestStreak(days []sharedDomain.Day) int {
	unique := SortedUniqueDays(days)
	if len(unique) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(unique); i++ {
		if unique[i-1].DaysUntil(unique[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// SortedUniqueDays returns days deduplicated and in ascending order.
func SortedUniqueDays(days []sharedDomain.Day) []sharedDomain.Day {
	seen := make(map[sharedDomain.Day]struct{}, len(days))
	out := make([]sharedDomain.Day, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
