package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	achievementQueries "github.com/jplande/HabitTracker/internal/achievements/application/queries"
	achievementDomain "github.com/jplande/HabitTracker/internal/achievements/domain"
	habitQueries "github.com/jplande/HabitTracker/internal/habits/application/queries"
	identityQueries "github.com/jplande/HabitTracker/internal/identity/application/queries"
	insightsQueries "github.com/jplande/HabitTracker/internal/insights/application/queries"
)

// RegisterResources registers MCP resources that expose habit tracker data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	if err := registerHabitResources(srv, deps); err != nil {
		return err
	}
	if err := registerStatsResources(srv, deps); err != nil {
		return err
	}
	if err := registerAchievementResources(srv, deps); err != nil {
		return err
	}
	if err := registerSystemResources(srv, deps); err != nil {
		return err
	}

	return nil
}

func jsonContent(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}

func registerHabitResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("habittracker://habits").
		Name("Habits").
		Description("All habits of the current user, inactive ones included").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListHabitsHandler == nil {
				return nil, fmt.Errorf("habit listing requires database connection")
			}
			habits, err := app.ListHabitsHandler.Handle(ctx, habitQueries.ListHabitsQuery{
				UserID:          app.CurrentUserID,
				IncludeInactive: true,
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, habits)
		})

	srv.Resource("habittracker://habits/active").
		Name("Active Habits").
		Description("Habits the current user is tracking").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListHabitsHandler == nil {
				return nil, fmt.Errorf("habit listing requires database connection")
			}
			habits, err := app.ListHabitsHandler.Handle(ctx, habitQueries.ListHabitsQuery{
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, habits)
		})

	return nil
}

func registerStatsResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("habittracker://stats/me").
		Name("User Statistics").
		Description("Activity of the current user over the last 30 days").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.UserStatisticsHandler == nil {
				return nil, fmt.Errorf("user statistics require database connection")
			}
			stats, err := app.UserStatisticsHandler.Handle(ctx, insightsQueries.GetUserStatisticsQuery{
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, stats)
		})

	srv.Resource("habittracker://stats/compare").
		Name("Habit Comparison").
		Description("Active habits ranked by 30-day consistency").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.CompareHabitsHandler == nil {
				return nil, fmt.Errorf("habit comparison requires database connection")
			}
			comparison, err := app.CompareHabitsHandler.Handle(ctx, insightsQueries.CompareHabitsQuery{
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, comparison)
		})

	srv.Resource("habittracker://stats/trends").
		Name("Monthly Trends").
		Description("Entry counts and averages over the last 6 months").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.MonthlyTrendsHandler == nil {
				return nil, fmt.Errorf("monthly trends require database connection")
			}
			trends, err := app.MonthlyTrendsHandler.Handle(ctx, insightsQueries.GetMonthlyTrendsQuery{
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, trends)
		})

	return nil
}

type catalogEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func registerAchievementResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("habittracker://achievements").
		Name("Achievements").
		Description("Achievements unlocked by the current user, most recent first").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListAchievementsHandler == nil {
				return nil, fmt.Errorf("achievement listing requires database connection")
			}
			achievements, err := app.ListAchievementsHandler.Handle(ctx, achievementQueries.ListAchievementsQuery{
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, achievements)
		})

	srv.Resource("habittracker://achievements/summary").
		Name("Achievement Summary").
		Description("Totals and rarity tiers of the achievement collection").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.AchievementSummaryHandler == nil {
				return nil, fmt.Errorf("achievement summary requires database connection")
			}
			summary, err := app.AchievementSummaryHandler.Handle(ctx, achievementQueries.GetAchievementSummaryQuery{
				UserID: app.CurrentUserID,
			})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, summary)
		})

	srv.Resource("habittracker://achievements/catalog").
		Name("Achievement Catalog").
		Description("Every achievement that can be unlocked and what it takes").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			rules := achievementDomain.Catalog()
			entries := make([]catalogEntry, 0, len(rules))
			for _, r := range rules {
				entries = append(entries, catalogEntry{
					Name:        r.Name,
					Type:        string(r.Type),
					Category:    r.Type.Category(),
					Description: r.Description,
					Icon:        r.Icon,
				})
			}
			return jsonContent(uri, entries)
		})

	return nil
}

func registerSystemResources(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Resource("habittracker://user/profile").
		Name("User Profile").
		Description("The current user's profile").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.GetUserHandler == nil {
				return nil, fmt.Errorf("profile requires database connection")
			}
			user, err := app.GetUserHandler.Handle(ctx, identityQueries.GetUserQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return jsonContent(uri, user)
		})

	srv.Resource("habittracker://system/health").
		Name("System Health").
		Description("State of the store, cache and event broker").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.Health == nil {
				return nil, fmt.Errorf("health registry not initialized")
			}
			return jsonContent(uri, app.Health.Check(ctx))
		})

	return nil
}
