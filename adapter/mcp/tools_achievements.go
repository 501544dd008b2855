package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/jplande/HabitTracker/internal/achievements/application/commands"
	"github.com/jplande/HabitTracker/internal/achievements/application/queries"
)

type achievementCheckInput struct {
	HabitID string `json:"habit_id,omitempty"`
	Type    string `json:"type,omitempty"`
}

type achievementListInput struct {
	Type       string `json:"type,omitempty"`
	RecentDays int    `json:"recent_days,omitempty"`
}

func registerAchievementTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("achievement.check").
		Description("Evaluate the achievement rules and unlock what the user has earned").
		Handler(func(ctx context.Context, input achievementCheckInput) (*commands.CheckAndUnlockResult, error) {
			if app == nil || app.CheckAndUnlockHandler == nil {
				return nil, errors.New("achievement check requires database connection")
			}
			habitID, err := parseOptionalUUID(input.HabitID)
			if err != nil {
				return nil, err
			}
			return app.CheckAndUnlockHandler.Handle(ctx, commands.CheckAndUnlockCommand{
				UserID:  app.CurrentUserID,
				HabitID: habitID,
				Type:    input.Type,
			})
		})

	srv.Tool("achievement.list").
		Description("List unlocked achievements, most recent first").
		Handler(func(ctx context.Context, input achievementListInput) ([]queries.AchievementDTO, error) {
			if app == nil || app.ListAchievementsHandler == nil {
				return nil, errors.New("achievement listing requires database connection")
			}
			return app.ListAchievementsHandler.Handle(ctx, queries.ListAchievementsQuery{
				UserID:     app.CurrentUserID,
				Type:       input.Type,
				RecentDays: input.RecentDays,
			})
		})

	srv.Tool("achievement.summary").
		Description("Totals, rarity tiers and recent activity of the achievement collection").
		Handler(func(ctx context.Context, input struct{}) (*queries.AchievementSummary, error) {
			if app == nil || app.AchievementSummaryHandler == nil {
				return nil, errors.New("achievement summary requires database connection")
			}
			return app.AchievementSummaryHandler.Handle(ctx, queries.GetAchievementSummaryQuery{UserID: app.CurrentUserID})
		})

	return nil
}
