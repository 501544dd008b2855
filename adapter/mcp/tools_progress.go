package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	achievementCommands "github.com/jplande/HabitTracker/internal/achievements/application/commands"
	"github.com/jplande/HabitTracker/internal/habits/application/commands"
	"github.com/jplande/HabitTracker/internal/habits/application/queries"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

type progressLogInput struct {
	HabitID          string  `json:"habit_id" jsonschema:"required"`
	Value            float64 `json:"value" jsonschema:"required"`
	Day              string  `json:"day,omitempty"`
	Note             string  `json:"note,omitempty"`
	SkipAchievements bool    `json:"skip_achievements,omitempty"`
}

type progressLogOutput struct {
	EntryID  string                                    `json:"entry_id"`
	Day      sharedDomain.Day                          `json:"day"`
	Unlocked []achievementCommands.UnlockedAchievement `json:"unlocked,omitempty"`
}

type progressListInput struct {
	HabitID string `json:"habit_id" jsonschema:"required"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Days    int    `json:"days,omitempty"`
}

type progressUpdateInput struct {
	EntryID string   `json:"entry_id" jsonschema:"required"`
	Value   *float64 `json:"value,omitempty"`
	Note    *string  `json:"note,omitempty"`
}

type progressIDInput struct {
	EntryID string `json:"entry_id" jsonschema:"required"`
}

func registerProgressTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("progress.log").
		Description("Log the value reached for a habit on a day (default today), then check achievements").
		Handler(func(ctx context.Context, input progressLogInput) (*progressLogOutput, error) {
			if app == nil || app.LogProgressHandler == nil {
				return nil, errors.New("progress logging requires database connection")
			}
			habitID, err := parseUUID(input.HabitID)
			if err != nil {
				return nil, err
			}
			day, err := parseDay(input.Day)
			if err != nil {
				return nil, err
			}

			result, err := app.LogProgressHandler.Handle(ctx, commands.LogProgressCommand{
				UserID:  app.CurrentUserID,
				HabitID: habitID,
				Day:     day,
				Value:   input.Value,
				Note:    input.Note,
			})
			if err != nil {
				return nil, err
			}

			out := &progressLogOutput{EntryID: result.EntryID.String(), Day: result.Day}
			if input.SkipAchievements || app.CheckAndUnlockHandler == nil {
				return out, nil
			}
			unlocked, err := app.CheckAndUnlockHandler.Handle(ctx, achievementCommands.CheckAndUnlockCommand{
				UserID:  app.CurrentUserID,
				HabitID: &habitID,
			})
			if err != nil {
				// the entry is stored; a later check catches up
				return out, nil
			}
			out.Unlocked = unlocked.NewlyUnlocked
			return out, nil
		})

	srv.Tool("progress.list").
		Description("List the progress entries of a habit over a date range or the last N days (default 30)").
		Handler(func(ctx context.Context, input progressListInput) ([]queries.ProgressDTO, error) {
			if app == nil || app.ListProgressHandler == nil {
				return nil, errors.New("progress listing requires database connection")
			}
			habitID, err := parseUUID(input.HabitID)
			if err != nil {
				return nil, err
			}
			window, err := resolveWindow(input.From, input.To, input.Days)
			if err != nil {
				return nil, err
			}
			return app.ListProgressHandler.Handle(ctx, queries.ListProgressQuery{
				UserID:  app.CurrentUserID,
				HabitID: habitID,
				Window:  window,
			})
		})

	srv.Tool("progress.update").
		Description("Change the value or note of a progress entry").
		Handler(func(ctx context.Context, input progressUpdateInput) (map[string]any, error) {
			if app == nil || app.UpdateProgressHandler == nil {
				return nil, errors.New("progress update requires database connection")
			}
			entryID, err := parseUUID(input.EntryID)
			if err != nil {
				return nil, err
			}
			if err := app.UpdateProgressHandler.Handle(ctx, commands.UpdateProgressCommand{
				UserID:  app.CurrentUserID,
				EntryID: entryID,
				Value:   input.Value,
				Note:    input.Note,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"entry_id": entryID, "updated": true}, nil
		})

	srv.Tool("progress.delete").
		Description("Delete a progress entry").
		Handler(func(ctx context.Context, input progressIDInput) (map[string]any, error) {
			if app == nil || app.DeleteProgressHandler == nil {
				return nil, errors.New("progress deletion requires database connection")
			}
			entryID, err := parseUUID(input.EntryID)
			if err != nil {
				return nil, err
			}
			if err := app.DeleteProgressHandler.Handle(ctx, commands.DeleteProgressCommand{
				UserID:  app.CurrentUserID,
				EntryID: entryID,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"entry_id": entryID, "deleted": true}, nil
		})

	return nil
}
