package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/jplande/HabitTracker/internal/insights/application/queries"
)

type habitStatsInput struct {
	HabitID string `json:"habit_id" jsonschema:"required"`
	Days    int    `json:"days,omitempty"`
}

type userStatsInput struct {
	Days int `json:"days,omitempty"`
}

type chartInput struct {
	HabitID string `json:"habit_id" jsonschema:"required"`
	Type    string `json:"type,omitempty"`
	Days    int    `json:"days,omitempty"`
}

func registerStatsTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("stats.habit").
		Description("Streaks, completion rate, value statistics and trend of a habit over the last N days (default 30)").
		Handler(func(ctx context.Context, input habitStatsInput) (*queries.HabitStatistics, error) {
			if app == nil || app.HabitStatisticsHandler == nil {
				return nil, errors.New("habit statistics require database connection")
			}
			habitID, err := parseUUID(input.HabitID)
			if err != nil {
				return nil, err
			}
			return app.HabitStatisticsHandler.Handle(ctx, queries.GetHabitStatisticsQuery{
				UserID:  app.CurrentUserID,
				HabitID: habitID,
				Days:    input.Days,
			})
		})

	srv.Tool("stats.user").
		Description("Overall activity of the current user over the last N days (default 30)").
		Handler(func(ctx context.Context, input userStatsInput) (*queries.UserStatistics, error) {
			if app == nil || app.UserStatisticsHandler == nil {
				return nil, errors.New("user statistics require database connection")
			}
			return app.UserStatisticsHandler.Handle(ctx, queries.GetUserStatisticsQuery{
				UserID: app.CurrentUserID,
				Days:   input.Days,
			})
		})

	srv.Tool("stats.compare").
		Description("Rank active habits by consistency over the last 30 days").
		Handler(func(ctx context.Context, input struct{}) (*queries.Comparison, error) {
			if app == nil || app.CompareHabitsHandler == nil {
				return nil, errors.New("habit comparison requires database connection")
			}
			return app.CompareHabitsHandler.Handle(ctx, queries.CompareHabitsQuery{UserID: app.CurrentUserID})
		})

	srv.Tool("stats.trends").
		Description("Monthly entry counts, averages and growth over the last 6 months").
		Handler(func(ctx context.Context, input struct{}) (*queries.MonthlyTrends, error) {
			if app == nil || app.MonthlyTrendsHandler == nil {
				return nil, errors.New("monthly trends require database connection")
			}
			return app.MonthlyTrendsHandler.Handle(ctx, queries.GetMonthlyTrendsQuery{UserID: app.CurrentUserID})
		})

	srv.Tool("stats.chart").
		Description("Chart data for a habit. Types: line, bar, weekly, heatmap").
		Handler(func(ctx context.Context, input chartInput) (*queries.ChartData, error) {
			if app == nil || app.ChartDataHandler == nil {
				return nil, errors.New("chart data requires database connection")
			}
			habitID, err := parseUUID(input.HabitID)
			if err != nil {
				return nil, err
			}
			if input.Type == "" {
				input.Type = string(queries.ChartLine)
			}
			return app.ChartDataHandler.Handle(ctx, queries.GetChartDataQuery{
				UserID:  app.CurrentUserID,
				HabitID: habitID,
				Type:    input.Type,
				Days:    input.Days,
			})
		})

	return nil
}
