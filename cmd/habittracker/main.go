package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/adapter/cli/achievement"
	"github.com/jplande/HabitTracker/adapter/cli/habit"
	"github.com/jplande/HabitTracker/adapter/cli/insights"
	"github.com/jplande/HabitTracker/adapter/cli/mcp"
	"github.com/jplande/HabitTracker/adapter/cli/progress"
	"github.com/jplande/HabitTracker/adapter/cli/user"
	"github.com/jplande/HabitTracker/internal/app"
	mcpinternal "github.com/jplande/HabitTracker/internal/mcp"
	"github.com/jplande/HabitTracker/pkg/config"
	"github.com/jplande/HabitTracker/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		observability.LoggerFromEnv().Error("failed to load config", "error", err)
		return 1
	}

	// Logs go to stderr and stay quiet unless a level is asked for, so they
	// never mix with command output.
	logCfg := observability.DefaultLogConfig()
	logCfg.ServiceVersion = cli.Version
	logCfg.Level = observability.LogLevelWarn
	if level := os.Getenv("HABITTRACKER_LOG_LEVEL"); level != "" {
		logCfg.Level = observability.LogLevel(level)
	}
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// Collected in-process; only "mcp serve" exposes them on MCP_METRICS_ADDR.
	container, err := app.NewContainer(ctx, cfg, logger, app.WithMetrics(observability.NewPrometheusMetrics()))
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		return 1
	}
	defer container.Close()

	userID, err := container.CurrentUserID()
	if err != nil {
		logger.Error("invalid HABITTRACKER_USER_ID", "error", err)
		return 1
	}

	cli.SetApp(mcpinternal.NewCLIApp(container, userID))

	cli.AddCommand(user.Cmd)
	cli.AddCommand(habit.Cmd)
	cli.AddCommand(progress.Cmd)
	cli.AddCommand(insights.Cmd)
	cli.AddCommand(achievement.Cmd)
	cli.AddCommand(mcp.Cmd)

	return cli.Execute(ctx)
}
