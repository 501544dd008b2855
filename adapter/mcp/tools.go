package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/jplande/HabitTracker/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	if err := registerSystemTools(srv, deps); err != nil {
		return err
	}
	if err := registerUserTools(srv, deps); err != nil {
		return err
	}
	if err := registerHabitTools(srv, deps); err != nil {
		return err
	}
	if err := registerProgressTools(srv, deps); err != nil {
		return err
	}
	if err := registerStatsTools(srv, deps); err != nil {
		return err
	}
	if err := registerAchievementTools(srv, deps); err != nil {
		return err
	}

	return nil
}
