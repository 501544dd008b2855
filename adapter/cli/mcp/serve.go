package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/jplande/HabitTracker/adapter/cli"
	mcpinternal "github.com/jplande/HabitTracker/internal/mcp"
	"github.com/jplande/HabitTracker/pkg/config"
	"github.com/jplande/HabitTracker/pkg/observability"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose the habit tracker as MCP tools, resources and prompts over HTTP.

Set MCP_AUTH_TOKEN to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := cli.RequireApp("MCP server")
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.MCPAddr = serveAddr
		}

		logger := newServerLogger(cmd.ErrOrStderr(), cfg)

		err = mcpinternal.Serve(ctx, cfg, app, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func newServerLogger(out io.Writer, cfg *config.Config) *slog.Logger {
	logCfg := observability.DefaultLogConfig()
	logCfg.Output = out
	logCfg.ServiceName = "habittracker-mcp"
	logCfg.ServiceVersion = cli.Version
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	if cfg.IsDevelopment() {
		logCfg.Level = observability.LogLevelDebug
	}
	return observability.NewLogger(logCfg)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from MCP_ADDR)")
}
