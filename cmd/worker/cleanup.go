package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// outboxCleaner deletes relayed events older than a retention period.
type outboxCleaner interface {
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

// newCleanupScheduler registers the outbox cleanup on a standard five-field
// cron schedule. The caller starts and stops the returned scheduler.
func newCleanupScheduler(ctx context.Context, cleaner outboxCleaner, schedule string, retention time.Duration, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(schedule, func() {
		runCleanup(ctx, cleaner, retention, logger)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func runCleanup(ctx context.Context, cleaner outboxCleaner, retention time.Duration, logger *slog.Logger) {
	if ctx.Err() != nil {
		return
	}
	deleted, err := cleaner.Cleanup(ctx, retention)
	if err != nil {
		logger.Error("outbox cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		logger.Info("outbox cleanup completed", "deleted", deleted, "retention", retention)
	}
}
