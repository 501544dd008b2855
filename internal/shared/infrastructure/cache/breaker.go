package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures BreakerBackend.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// DefaultBreakerConfig returns 5 failures and a 30s open period.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, Timeout: 30 * time.Second}
}

// BreakerBackend guards another backend with a circuit breaker. While the
// breaker is open calls fail fast with gobreaker.ErrOpenState, which the
// coordinator treats like any other cache error.
type BreakerBackend struct {
	next    Backend
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerBackend wraps next.
func NewBreakerBackend(next Backend, cfg BreakerConfig, logger *slog.Logger) *BreakerBackend {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultBreakerConfig().Timeout
	}

	settings := gobreaker.Settings{
		Name:        "cache",
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerBackend{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State returns the current breaker state.
func (b *BreakerBackend) State() gobreaker.State {
	return b.breaker.State()
}

type getResult struct {
	value []byte
	found bool
}

func (b *BreakerBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := b.breaker.Execute(func() (any, error) {
		value, found, err := b.next.Get(ctx, key)
		return getResult{value: value, found: found}, err
	})
	if err != nil {
		return nil, false, err
	}
	res := out.(getResult)
	return res.value, res.found, nil
}

func (b *BreakerBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.breaker.Execute(func() (any, error) {
		return nil, b.next.Set(ctx, key, value, ttl)
	})
	return err
}

func (b *BreakerBackend) Delete(ctx context.Context, keys ...string) error {
	_, err := b.breaker.Execute(func() (any, error) {
		return nil, b.next.Delete(ctx, keys...)
	})
	return err
}

func (b *BreakerBackend) DeletePrefix(ctx context.Context, prefix string) error {
	_, err := b.breaker.Execute(func() (any, error) {
		return nil, b.next.DeletePrefix(ctx, prefix)
	})
	return err
}
