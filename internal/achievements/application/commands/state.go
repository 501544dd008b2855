package commands

import (
	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/achievements/domain"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	insightsDomain "github.com/jplande/HabitTracker/internal/insights/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// BuildState derives the rule inputs from a user's habits, including
// inactive ones, and full progress history.
func BuildState(habits []*habitsDomain.Habit, entries []*habitsDomain.ProgressEntry, today sharedDomain.Day) domain.AggregateState {
	state := domain.AggregateState{TotalEntries: len(entries)}

	categories := make(map[habitsDomain.Category]struct{})
	targets := make(map[uuid.UUID]float64)
	for _, h := range habits {
		if h.IsActive() {
			state.ActiveHabits++
			categories[h.Category()] = struct{}{}
		}
		if h.HasTarget() {
			targets[h.ID()] = h.TargetValue()
		}
	}
	state.DistinctCategories = len(categories)

	userDays := make([]sharedDomain.Day, 0, len(entries))
	habitDays := make(map[uuid.UUID][]sharedDomain.Day)
	for _, e := range entries {
		userDays = append(userDays, e.Day())
		habitDays[e.HabitID()] = append(habitDays[e.HabitID()], e.Day())
		if target, ok := targets[e.HabitID()]; ok && e.Value() >= target*domain.OverachieveFactor {
			state.OverachievedEntries++
		}
	}

	state.CurrentStreak = insightsDomain.CurrentStreak(userDays, today)
	for _, days := range habitDays {
		state.LongestHabitStreak = max(state.LongestHabitStreak, insightsDomain.LongestStreak(days))
	}
	return state
}
