package queries

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	identityDomain "github.com/jplande/HabitTracker/internal/identity/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/pkg/observability"
)

// DefaultWindowDays is used when a query does not name a window length.
const DefaultWindowDays = 30

// fanOutLimit bounds concurrent store calls of one query.
const fanOutLimit = 4

// AchievementCounter reports how many achievements a user holds.
type AchievementCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// UserFinder loads users.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error)
}

type options struct {
	today   func() sharedDomain.Day
	logger  *slog.Logger
	metrics observability.Metrics
}

// Option configures a statistics handler.
type Option func(*options)

// WithClock overrides how handlers determine today.
func WithClock(today func() sharedDomain.Day) Option {
	return func(o *options) { o.today = today }
}

// WithLogger sets the logger used for computation timing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics sets the metrics sink used for computation timing.
func WithMetrics(metrics observability.Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

func newOptions(opts []Option) options {
	o := options{
		today:   sharedDomain.Today,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timed runs a computation under the stats operation timer.
func timed[T any](o options, operation string, fn func() (T, error)) (T, error) {
	result, err := observability.TimeOperationResult(o.logger, o.metrics, operation, fn)
	if err == nil {
		o.metrics.Counter(observability.MetricStatsComputed, 1, observability.T(observability.OperationKey, operation))
	}
	return result, err
}

func resolveDays(days int) int {
	if days == 0 {
		return DefaultWindowDays
	}
	return days
}

// requireUser fails with ErrUserNotFound for unknown users, before any cache
// lookup can answer for them.
func requireUser(ctx context.Context, users UserFinder, userID uuid.UUID) error {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return transient("load user", err)
	}
	if user == nil {
		return identityDomain.ErrUserNotFound
	}
	return nil
}

func loadOwnedHabit(ctx context.Context, repo habitsDomain.HabitRepository, userID, habitID uuid.UUID) (*habitsDomain.Habit, error) {
	habit, err := repo.FindByID(ctx, habitID)
	if err != nil {
		return nil, transient("load habit", err)
	}
	if habit == nil || !habit.BelongsTo(userID) {
		return nil, habitsDomain.ErrHabitNotFound
	}
	return habit, nil
}

func transient(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", sharedDomain.ErrTransient, op, err)
}
