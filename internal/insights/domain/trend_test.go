package domain

import (
	"testing"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(t *testing.T, start, end string) sharedDomain.Window {
	t.Helper()
	w, err := sharedDomain.NewWindow(day(t, start), day(t, end))
	require.NoError(t, err)
	return w
}

func samples(t *testing.T, pairs ...any) []Sample {
	t.Helper()
	out := make([]Sample, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Sample{Day: day(t, pairs[i].(string)), Value: pairs[i+1].(float64)})
	}
	return out
}

func TestAnalyze(t *testing.T) {
	w := window(t, "2026-06-01", "2026-06-10")

	t.Run("empty window", func(t *testing.T) {
		a := Analyze(w, nil, nil)

		assert.Equal(t, 0, a.Entries)
		assert.Equal(t, 0.0, a.CompletionRate)
		assert.Equal(t, 0.0, a.Min)
		assert.Equal(t, 0.0, a.Max)
		assert.Equal(t, 0.0, a.Median)
		assert.Equal(t, TrendInsufficient, a.Trend)
		assert.Equal(t, 0.0, a.Improvement)
		assert.Equal(t, 0.0, a.TargetReachRate)
	})

	t.Run("value statistics", func(t *testing.T) {
		a := Analyze(w, samples(t, "2026-06-03", 4.0, "2026-06-01", 2.0, "2026-06-02", 9.0, "2026-06-04", 1.0), nil)

		assert.Equal(t, 4, a.Entries)
		assert.Equal(t, 40.0, a.CompletionRate)
		assert.Equal(t, 16.0, a.Total)
		assert.Equal(t, 4.0, a.Average)
		assert.Equal(t, 1.0, a.Min)
		assert.Equal(t, 9.0, a.Max)
		assert.Equal(t, 3.0, a.Median)
	})

	t.Run("trend follows the halves sorted by date", func(t *testing.T) {
		up := Analyze(w, samples(t, "2026-06-04", 10.0, "2026-06-01", 1.0, "2026-06-02", 2.0, "2026-06-03", 8.0), nil)
		down := Analyze(w, samples(t, "2026-06-01", 10.0, "2026-06-02", 8.0, "2026-06-03", 2.0), nil)
		flat := Analyze(w, samples(t, "2026-06-01", 5.0, "2026-06-02", 5.05), nil)

		assert.Equal(t, TrendPositive, up.Trend)
		assert.Equal(t, TrendNegative, down.Trend)
		assert.Equal(t, TrendStable, flat.Trend)
	})

	t.Run("single entry has insufficient data", func(t *testing.T) {
		a := Analyze(w, samples(t, "2026-06-01", 5.0), nil)

		assert.Equal(t, TrendInsufficient, a.Trend)
		assert.Equal(t, 0.0, a.Improvement)
	})

	t.Run("improvement from first to last", func(t *testing.T) {
		a := Analyze(w, samples(t, "2026-06-05", 15.0, "2026-06-01", 10.0, "2026-06-03", 1.0), nil)
		assert.InDelta(t, 50.0, a.Improvement, 1e-9)

		zero := Analyze(w, samples(t, "2026-06-01", 0.0, "2026-06-02", 5.0), nil)
		assert.Equal(t, 0.0, zero.Improvement)
	})

	t.Run("target reach rate", func(t *testing.T) {
		target := 5.0
		a := Analyze(w, samples(t, "2026-06-01", 5.0, "2026-06-02", 4.9, "2026-06-03", 7.0, "2026-06-04", 1.0), &target)
		assert.Equal(t, 50.0, a.TargetReachRate)

		zero := 0.0
		assert.Equal(t, 0.0, Analyze(w, samples(t, "2026-06-01", 5.0), &zero).TargetReachRate)
		assert.Equal(t, 0.0, Analyze(w, samples(t, "2026-06-01", 5.0), nil).TargetReachRate)
	})
}

func TestAnalyze_TrendOverTwentyEntries(t *testing.T) {
	w := window(t, "2026-06-01", "2026-06-20")

	// series builds one sample per day, handed over newest first.
	series := func(value func(i int) float64) []Sample {
		out := make([]Sample, 0, 20)
		for i := 19; i >= 0; i-- {
			out = append(out, Sample{Day: w.Start.AddDays(i), Value: value(i)})
		}
		return out
	}

	tests := []struct {
		name  string
		value func(i int) float64
		want  Trend
	}{
		{"rising values", func(i int) float64 { return float64(i + 1) }, TrendPositive},
		{"falling values", func(i int) float64 { return float64(20 - i) }, TrendNegative},
		{"equal halves", func(int) float64 { return 5 }, TrendStable},
		{"halves within threshold", func(i int) float64 {
			if i < 10 {
				return 5
			}
			return 5.05
		}, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(w, series(tt.value), nil)

			assert.Equal(t, 20, a.Entries)
			assert.Equal(t, 100.0, a.CompletionRate)
			assert.Equal(t, tt.want, a.Trend)
		})
	}
}

func TestCompletionRate(t *testing.T) {
	w := window(t, "2026-06-01", "2026-06-10")

	t.Run("duplicate days count once", func(t *testing.T) {
		rate := CompletionRate(w, samples(t, "2026-06-01", 1.0, "2026-06-01", 2.0))
		assert.Equal(t, 10.0, rate)
	})

	t.Run("days outside the window are ignored", func(t *testing.T) {
		rate := CompletionRate(w, samples(t, "2026-05-31", 1.0, "2026-06-11", 1.0))
		assert.Equal(t, 0.0, rate)
	})

	t.Run("full window is 100", func(t *testing.T) {
		var all []Sample
		for _, d := range run(w.End, 10) {
			all = append(all, Sample{Day: d, Value: 1})
		}
		assert.Equal(t, 100.0, CompletionRate(w, all))
	})

	t.Run("always within bounds", func(t *testing.T) {
		var s []Sample
		for i := 0; i < 30; i++ {
			s = append(s, Sample{Day: w.Start.AddDays(i - 10), Value: 1})
			rate := CompletionRate(w, s)
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 100.0)
		}
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 2.5, Round2(2.499999))
	assert.Equal(t, 0.0, Round2(0))
}
