package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jplande/HabitTracker/internal/app"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
	"github.com/jplande/HabitTracker/pkg/config"
	"github.com/jplande/HabitTracker/pkg/observability"
)

const statsInterval = time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	logger := observability.LoggerFromEnv()

	logger.Info("starting habittracker worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	if cfg.IsDevelopment() {
		logCfg := observability.DefaultLogConfig()
		logCfg.Level = observability.LogLevelDebug
		logCfg.ServiceName = "habittracker-worker"
		logger = observability.NewLogger(logCfg)
	}

	metrics := observability.NewPrometheusMetrics()

	container, err := app.NewContainer(ctx, cfg, logger, app.WithEventRelay(), app.WithMetrics(metrics))
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		return 1
	}
	defer container.Close()

	processor := container.OutboxProcessor
	container.Health.Register("outbox", outboxChecker(processor))

	logger.Info("starting outbox processor",
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_retries", cfg.OutboxMaxRetries,
	)
	if err := processor.Start(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		return 1
	}

	cleanup, err := newCleanupScheduler(ctx, processor, cfg.OutboxCleanupSchedule, cfg.OutboxRetention, logger)
	if err != nil {
		logger.Error("invalid outbox cleanup schedule", "schedule", cfg.OutboxCleanupSchedule, "error", err)
		return 1
	}
	cleanup.Start()
	defer func() { <-cleanup.Stop().Done() }()

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           newHealthMux(processor, container.Health, metrics),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	statsTicker := time.NewTicker(statsInterval)
	defer statsTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-statsTicker.C:
				stats := processor.GetStats()
				logger.Info("outbox stats",
					"running", stats.IsRunning,
					"published", stats.PublishedCount,
					"failed", stats.FailedCount,
					"dead", stats.DeadCount,
					"lag_seconds", stats.LagSeconds,
					"oldest_message_at", stats.OldestMessageAt,
					"last_processed_at", stats.LastProcessedAt,
					"last_error_at", stats.LastErrorAt,
					"last_error", stats.LastError,
				)
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down worker")

	processor.Stop()
	logger.Info("worker stopped")

	fmt.Println("Goodbye!")
	return 0
}

// newHealthMux serves liveness with the relay counters, readiness from the
// health registry and the Prometheus scrape endpoint.
func newHealthMux(processor *outbox.Processor, health *observability.HealthRegistry, metrics *observability.PrometheusMetrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := processor.GetStats()
		response := map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})
	mux.Handle("/readyz", health.Handler())
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func outboxChecker(processor *outbox.Processor) observability.HealthChecker {
	return func(ctx context.Context) observability.HealthCheckResult {
		stats := processor.GetStats()
		if !stats.IsRunning {
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusUnhealthy,
				Message: "outbox processor stopped",
			}
		}
		if stats.LastError != "" && stats.LastErrorAt != nil &&
			(stats.LastProcessedAt == nil || stats.LastErrorAt.After(*stats.LastProcessedAt)) {
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusDegraded,
				Message: "last relay attempt failed: " + stats.LastError,
			}
		}
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy, Message: "outbox ok"}
	}
}
