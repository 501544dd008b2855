package domain

import (
	"testing"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) sharedDomain.Day {
	t.Helper()
	d, err := sharedDomain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func days(t *testing.T, ss ...string) []sharedDomain.Day {
	t.Helper()
	out := make([]sharedDomain.Day, len(ss))
	for i, s := range ss {
		out[i] = day(t, s)
	}
	return out
}

// run returns n consecutive days ending at end.
func run(end sharedDomain.Day, n int) []sharedDomain.Day {
	out := make([]sharedDomain.Day, n)
	for i := 0; i < n; i++ {
		out[i] = end.AddDays(-i)
	}
	return out
}
