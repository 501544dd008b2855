package domain

// AggregateState is the snapshot of a user's activity the rules are
// evaluated against.
type AggregateState struct {
	TotalEntries        int
	CurrentStreak       int
	LongestHabitStreak  int
	ActiveHabits        int
	DistinctCategories  int
	OverachievedEntries int
}

// OverachieveFactor is how far past its target an entry must go to count as
// overachieved.
const OverachieveFactor = 1.5

// Rule awards an achievement when its predicate holds.
type Rule struct {
	Name        string
	Type        Type
	Description string
	Icon        string
	Predicate   func(AggregateState) bool
}

var catalog = []Rule{
	{
		Name:        "Semaine parfaite",
		Type:        TypeConsistency,
		Description: "7 jours consécutifs de progression",
		Icon:        "🔥",
		Predicate:   func(s AggregateState) bool { return s.CurrentStreak >= 7 },
	},
	{
		Name:        "Première dizaine",
		Type:        TypeMilestone,
		Description: "10 progressions enregistrées",
		Icon:        "🎯",
		Predicate:   func(s AggregateState) bool { return s.TotalEntries >= 10 },
	},
	{
		Name:        "Demi-siècle",
		Type:        TypeMilestone,
		Description: "50 progressions enregistrées",
		Icon:        "🏅",
		Predicate:   func(s AggregateState) bool { return s.TotalEntries >= 50 },
	},
	{
		Name:        "Série impressionnante",
		Type:        TypeStreak,
		Description: "15 jours consécutifs",
		Icon:        "⚡",
		Predicate:   func(s AggregateState) bool { return s.CurrentStreak >= 15 },
	},
	{
		Name:        "Multi-tâches",
		Type:        TypeDedication,
		Description: "5 habitudes actives en même temps",
		Icon:        "🎪",
		Predicate:   func(s AggregateState) bool { return s.ActiveHabits >= 5 },
	},
	{
		Name:        "Polyvalent",
		Type:        TypeVariety,
		Description: "Habitudes dans 3 catégories différentes",
		Icon:        "🌈",
		Predicate:   func(s AggregateState) bool { return s.DistinctCategories >= 3 },
	},
	{
		Name:        "Au-delà de l'objectif",
		Type:        TypeOverachiever,
		Description: "10 progressions à 150% de l'objectif",
		Icon:        "🚀",
		Predicate:   func(s AggregateState) bool { return s.OverachievedEntries >= 10 },
	},
	{
		Name:        "Persévérance",
		Type:        TypePerseverance,
		Description: "30 jours consécutifs sur une même habitude",
		Icon:        "🏔️",
		Predicate:   func(s AggregateState) bool { return s.LongestHabitStreak >= 30 },
	},
}

// Catalog returns the rules in evaluation order.
func Catalog() []Rule {
	return append([]Rule(nil), catalog...)
}

// Evaluate returns the rules of rules whose predicate holds for state, in
// order. A non-empty only restricts evaluation to rules of that type.
func Evaluate(rules []Rule, state AggregateState, only Type) []Rule {
	var met []Rule
	for _, r := range rules {
		if only != "" && r.Type != only {
			continue
		}
		if r.Predicate(state) {
			met = append(met, r)
		}
	}
	return met
}
