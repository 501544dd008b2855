package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jplande/HabitTracker/pkg/observability"
)

// Scope groups keys whose lifetime is tied to one entity.
type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeHabit Scope = "habit"
	ScopeChart Scope = "chart"
)

// TTLs holds the time-to-live of each scope.
type TTLs struct {
	User  time.Duration
	Habit time.Duration
	Chart time.Duration
}

// DefaultTTLs returns 1h for user keys, 30m for habit keys and 15m for charts.
func DefaultTTLs() TTLs {
	return TTLs{User: time.Hour, Habit: 30 * time.Minute, Chart: 15 * time.Minute}
}

func (t TTLs) forScope(s Scope) time.Duration {
	switch s {
	case ScopeUser:
		return t.User
	case ScopeHabit:
		return t.Habit
	default:
		return t.Chart
	}
}

// Key is a fully qualified cache key together with its scope. Every key
// ends with the day it was computed for, so streaks and trailing windows
// roll over at midnight without a write.
type Key struct {
	Scope  Scope
	Name   string
	prefix string
}

func (k Key) String() string { return k.Name }

// UserStatsKey caches GetUserStatistics for a window length.
func UserStatsKey(userID string, days int, today string) Key {
	return userKey(userID, fmt.Sprintf("stats:%d", days), today)
}

// UserCompareKey caches CompareHabits.
func UserCompareKey(userID, today string) Key {
	return userKey(userID, "compare", today)
}

// UserTrendsKey caches GetMonthlyTrends.
func UserTrendsKey(userID, today string) Key {
	return userKey(userID, "trends", today)
}

// HabitStatsKey caches GetHabitStatistics for a window length.
func HabitStatsKey(habitID string, days int, today string) Key {
	prefix := habitPrefix(habitID)
	return Key{Scope: ScopeHabit, Name: fmt.Sprintf("%sstats:%d:%s", prefix, days, today), prefix: prefix}
}

// ChartKey caches GetChartData.
func ChartKey(habitID, chartType string, days int, today string) Key {
	prefix := chartPrefix(habitID)
	return Key{Scope: ScopeChart, Name: fmt.Sprintf("%s%s:%d:%s", prefix, chartType, days, today), prefix: prefix}
}

func userKey(userID, name, today string) Key {
	prefix := userPrefix(userID)
	return Key{Scope: ScopeUser, Name: prefix + name + ":" + today, prefix: prefix}
}

func userPrefix(userID string) string   { return "user:" + userID + ":" }
func habitPrefix(habitID string) string { return "habit:" + habitID + ":" }
func chartPrefix(habitID string) string { return "chart:" + habitID + ":" }

// Coordinator memoizes computations and drops them when their entity changes.
// Backend failures are logged and absorbed; callers always get a computed value.
//
// A prefix whose invalidation failed is remembered. Reads under it skip the
// backend until a later delete of that prefix succeeds, so an entry that
// outlived a failed invalidation is never served.
//
// Each prefix also carries a generation bumped on every invalidation. A
// value computed across a bump is not stored, since it may have been read
// before the write that triggered the invalidation.
type Coordinator struct {
	backend Backend
	ttls    TTLs
	logger  *slog.Logger
	metrics observability.Metrics

	mu      sync.Mutex
	pending map[string]struct{}
	gens    map[string]uint64
}

// NewCoordinator creates a coordinator over backend.
func NewCoordinator(backend Backend, ttls TTLs, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		backend: backend,
		ttls:    ttls,
		logger:  logger,
		metrics: observability.NoopMetrics{},
		pending: make(map[string]struct{}),
		gens:    make(map[string]uint64),
	}
}

// WithMetrics sets the metrics sink.
func (c *Coordinator) WithMetrics(metrics observability.Metrics) *Coordinator {
	if metrics != nil {
		c.metrics = metrics
	}
	return c
}

// GetOrCompute returns the cached value of key, or runs compute and stores
// its result. Errors from compute are returned as is and nothing is cached.
func GetOrCompute[T any](ctx context.Context, c *Coordinator, key Key, compute func(ctx context.Context) (T, error)) (T, error) {
	scope := observability.T("scope", string(key.Scope))

	if c.readable(ctx, key.Name) {
		raw, found, err := c.backend.Get(ctx, key.Name)
		switch {
		case err != nil:
			c.metrics.Counter(observability.MetricCacheErrors, 1, scope)
			c.logger.Debug("cache get failed", "key", key.Name, "error", err)
		case found:
			var cached T
			decodeErr := json.Unmarshal(raw, &cached)
			if decodeErr == nil {
				c.metrics.Counter(observability.MetricCacheHits, 1, scope)
				return cached, nil
			}
			c.metrics.Counter(observability.MetricCacheErrors, 1, scope)
			c.logger.Warn("cache entry undecodable", "key", key.Name, "error", decodeErr)
		}
	}
	c.metrics.Counter(observability.MetricCacheMisses, 1, scope)

	gen := c.generation(key.prefix)
	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	if c.generation(key.prefix) != gen || !c.readable(ctx, key.Name) {
		return value, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key.Name, "error", err)
		return value, nil
	}
	if err := c.backend.Set(ctx, key.Name, raw, c.ttls.forScope(key.Scope)); err != nil {
		c.metrics.Counter(observability.MetricCacheErrors, 1, scope)
		c.logger.Debug("cache set failed", "key", key.Name, "error", err)
		return value, nil
	}
	// An invalidation that landed between the check and the Set may have run
	// its delete before our write.
	if c.generation(key.prefix) != gen {
		if err := c.backend.Delete(ctx, key.Name); err != nil {
			c.metrics.Counter(observability.MetricCacheErrors, 1, scope)
			c.logger.Warn("cache stale entry delete failed", "key", key.Name, "error", err)
			c.mu.Lock()
			c.pending[key.prefix] = struct{}{}
			c.mu.Unlock()
		}
	}
	return value, nil
}

// InvalidateUser drops every user-scoped entry of userID.
func (c *Coordinator) InvalidateUser(ctx context.Context, userID string) {
	c.deletePrefix(ctx, ScopeUser, userPrefix(userID))
}

// InvalidateHabit drops the habit statistics and charts of habitID.
func (c *Coordinator) InvalidateHabit(ctx context.Context, habitID string) {
	c.deletePrefix(ctx, ScopeHabit, habitPrefix(habitID))
	c.deletePrefix(ctx, ScopeChart, chartPrefix(habitID))
}

func (c *Coordinator) deletePrefix(ctx context.Context, scope Scope, prefix string) {
	c.mu.Lock()
	c.gens[prefix]++
	c.mu.Unlock()

	if err := c.backend.DeletePrefix(ctx, prefix); err != nil {
		c.metrics.Counter(observability.MetricCacheErrors, 1, observability.T("scope", string(scope)))
		c.logger.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		c.mu.Lock()
		c.pending[prefix] = struct{}{}
		c.mu.Unlock()
		return
	}
	c.metrics.Counter(observability.MetricCacheInvalidations, 1, observability.T("scope", string(scope)))
	c.mu.Lock()
	delete(c.pending, prefix)
	c.mu.Unlock()
}

func (c *Coordinator) generation(prefix string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[prefix]
}

// readable retries pending invalidations covering key and reports whether
// the backend may be used for it.
func (c *Coordinator) readable(ctx context.Context, key string) bool {
	c.mu.Lock()
	var stale []string
	for prefix := range c.pending {
		if strings.HasPrefix(key, prefix) {
			stale = append(stale, prefix)
		}
	}
	c.mu.Unlock()

	ok := true
	for _, prefix := range stale {
		if err := c.backend.DeletePrefix(ctx, prefix); err != nil {
			ok = false
			continue
		}
		c.mu.Lock()
		delete(c.pending, prefix)
		c.mu.Unlock()
	}
	return ok
}
