package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jplande/HabitTracker/pkg/observability"
)

type stats struct {
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

func counting(calls *int, value stats) func(context.Context) (stats, error) {
	return func(context.Context) (stats, error) {
		*calls++
		return value, nil
	}
}

const day = "2024-03-10"

func TestKeys(t *testing.T) {
	assert.Equal(t, "user:u1:stats:30:2024-03-10", UserStatsKey("u1", 30, day).String())
	assert.Equal(t, "user:u1:compare:2024-03-10", UserCompareKey("u1", day).String())
	assert.Equal(t, "user:u1:trends:2024-03-10", UserTrendsKey("u1", day).String())
	assert.Equal(t, "habit:h1:stats:7:2024-03-10", HabitStatsKey("h1", 7, day).String())
	assert.Equal(t, "chart:h1:line:30:2024-03-10", ChartKey("h1", "line", 30, day).String())
	assert.Equal(t, ScopeChart, ChartKey("h1", "line", 30, day).Scope)

	t.Run("day rolls the key", func(t *testing.T) {
		assert.NotEqual(t, UserStatsKey("u1", 30, day), UserStatsKey("u1", 30, "2024-03-11"))
	})
}

func TestGetOrCompute_RoundTrip(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewInMemoryMetrics()
	c := NewCoordinator(NewMemoryBackend(), DefaultTTLs(), nil).WithMetrics(metrics)
	key := HabitStatsKey("h1", 30, day)

	calls := 0
	first, err := GetOrCompute(ctx, c, key, counting(&calls, stats{Count: 3, Rate: 10}))
	require.NoError(t, err)
	second, err := GetOrCompute(ctx, c, key, counting(&calls, stats{Count: 99}))
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCacheHits, observability.T("scope", "habit")))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCacheMisses, observability.T("scope", "habit")))
}

func TestGetOrCompute_ComputeErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	c := NewCoordinator(backend, DefaultTTLs(), nil)
	boom := errors.New("store down")

	_, err := GetOrCompute(ctx, c, UserCompareKey("u1", day), func(context.Context) (stats, error) {
		return stats{}, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, backend.Len())
}

func TestGetOrCompute_BackendFailuresAreAbsorbed(t *testing.T) {
	ctx := context.Background()
	down := errors.New("redis down")
	key := UserStatsKey("u1", 30, day)

	backend := new(mockBackend)
	backend.On("Get", ctx, key.Name).Return(nil, false, down)
	backend.On("Set", ctx, key.Name, mock.Anything, DefaultTTLs().User).Return(down)

	c := NewCoordinator(backend, DefaultTTLs(), nil)
	calls := 0
	got, err := GetOrCompute(ctx, c, key, counting(&calls, stats{Count: 5}))

	require.NoError(t, err)
	assert.Equal(t, 5, got.Count)
	assert.Equal(t, 1, calls)
	backend.AssertExpectations(t)
}

func TestGetOrCompute_UndecodableEntryIsRecomputed(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	key := HabitStatsKey("h1", 30, day)
	require.NoError(t, backend.Set(ctx, key.Name, []byte("not json"), 0))

	c := NewCoordinator(backend, DefaultTTLs(), nil)
	calls := 0
	got, err := GetOrCompute(ctx, c, key, counting(&calls, stats{Count: 2}))

	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 1, calls)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	c := NewCoordinator(backend, DefaultTTLs(), nil)

	calls := 0
	for _, key := range []Key{
		UserStatsKey("u1", 30, day), UserCompareKey("u1", day), UserCompareKey("u2", day),
		HabitStatsKey("h1", 30, day), ChartKey("h1", "bar", 30, day), ChartKey("h2", "bar", 30, day),
	} {
		_, err := GetOrCompute(ctx, c, key, counting(&calls, stats{Count: 1}))
		require.NoError(t, err)
	}
	require.Equal(t, 6, backend.Len())

	t.Run("user scope", func(t *testing.T) {
		c.InvalidateUser(ctx, "u1")
		assert.Equal(t, 4, backend.Len())
		_, found, _ := backend.Get(ctx, UserCompareKey("u2", day).Name)
		assert.True(t, found)
	})

	t.Run("habit scope drops stats and charts", func(t *testing.T) {
		c.InvalidateHabit(ctx, "h1")
		assert.Equal(t, 2, backend.Len())
		_, found, _ := backend.Get(ctx, ChartKey("h2", "bar", 30, day).Name)
		assert.True(t, found)
	})

	t.Run("next read recomputes", func(t *testing.T) {
		before := calls
		got, err := GetOrCompute(ctx, c, HabitStatsKey("h1", 30, day), counting(&calls, stats{Count: 7}))
		require.NoError(t, err)
		assert.Equal(t, 7, got.Count)
		assert.Equal(t, before+1, calls)
	})
}

func TestInvalidate_FailedPrefixBypassesBackendUntilRetried(t *testing.T) {
	ctx := context.Background()
	down := errors.New("redis down")
	key := UserCompareKey("u1", day)

	backend := new(mockBackend)
	backend.On("DeletePrefix", ctx, "user:u1:").Return(down).Times(3)

	c := NewCoordinator(backend, DefaultTTLs(), nil)
	c.InvalidateUser(ctx, "u1")

	calls := 0
	got, err := GetOrCompute(ctx, c, key, counting(&calls, stats{Count: 4}))
	require.NoError(t, err)
	assert.Equal(t, 4, got.Count)
	backend.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	backend.On("DeletePrefix", ctx, "user:u1:").Return(nil)
	backend.On("Get", ctx, key.Name).Return(nil, false, nil)
	backend.On("Set", ctx, key.Name, mock.Anything, DefaultTTLs().User).Return(nil)

	_, err = GetOrCompute(ctx, c, key, counting(&calls, stats{Count: 4}))
	require.NoError(t, err)
	backend.AssertCalled(t, "Get", ctx, key.Name)
}

func TestGetOrCompute_InvalidationDuringComputeIsNotCached(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	c := NewCoordinator(backend, DefaultTTLs(), nil)
	key := UserStatsKey("u1", 30, day)

	source := 1
	got, err := GetOrCompute(ctx, c, key, func(ctx context.Context) (stats, error) {
		read := source
		source = 2
		c.InvalidateUser(ctx, "u1")
		return stats{Count: read}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 0, backend.Len())

	got, err = GetOrCompute(ctx, c, key, func(context.Context) (stats, error) {
		return stats{Count: source}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)

	t.Run("other prefixes still cache", func(t *testing.T) {
		calls := 0
		_, err := GetOrCompute(ctx, c, HabitStatsKey("h1", 30, day), func(ctx context.Context) (stats, error) {
			calls++
			c.InvalidateUser(ctx, "u1")
			return stats{Count: 1}, nil
		})
		require.NoError(t, err)
		_, found, _ := backend.Get(ctx, HabitStatsKey("h1", 30, day).Name)
		assert.True(t, found)
		assert.Equal(t, 1, calls)
	})
}

func TestGetOrCompute_InvalidationRacingSetDeletesEntry(t *testing.T) {
	ctx := context.Background()
	key := UserCompareKey("u1", day)

	backend := new(mockBackend)
	backend.On("Get", ctx, key.Name).Return(nil, false, nil)
	backend.On("DeletePrefix", ctx, "user:u1:").Return(nil)
	backend.On("Delete", ctx, []string{key.Name}).Return(nil)

	c := NewCoordinator(backend, DefaultTTLs(), nil)
	backend.On("Set", ctx, key.Name, mock.Anything, DefaultTTLs().User).
		Run(func(mock.Arguments) { c.InvalidateUser(ctx, "u1") }).
		Return(nil)

	_, err := GetOrCompute(ctx, c, key, func(context.Context) (stats, error) {
		return stats{Count: 1}, nil
	})
	require.NoError(t, err)
	backend.AssertCalled(t, "Delete", ctx, []string{key.Name})
}
