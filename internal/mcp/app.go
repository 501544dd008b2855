package mcp

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := &cli.App{
		RegisterUserHandler: container.RegisterUserHandler,
		GetUserHandler:      container.GetUserHandler,

		CreateHabitHandler:    container.CreateHabitHandler,
		UpdateHabitHandler:    container.UpdateHabitHandler,
		SetHabitActiveHandler: container.SetHabitActiveHandler,

		LogProgressHandler:    container.LogProgressHandler,
		UpdateProgressHandler: container.UpdateProgressHandler,
		DeleteProgressHandler: container.DeleteProgressHandler,

		GetHabitHandler:     container.GetHabitHandler,
		ListHabitsHandler:   container.ListHabitsHandler,
		ListProgressHandler: container.ListProgressHandler,

		HabitStatisticsHandler: container.HabitStatisticsHandler,
		UserStatisticsHandler:  container.UserStatisticsHandler,
		CompareHabitsHandler:   container.CompareHabitsHandler,
		MonthlyTrendsHandler:   container.MonthlyTrendsHandler,
		ChartDataHandler:       container.ChartDataHandler,

		CheckAndUnlockHandler:     container.CheckAndUnlockHandler,
		ListAchievementsHandler:   container.ListAchievementsHandler,
		AchievementSummaryHandler: container.AchievementSummaryHandler,

		Health: container.Health,
	}

	if scrapeable, ok := container.Metrics.(interface{ Handler() http.Handler }); ok {
		cliApp.MetricsHandler = scrapeable.Handler()
	}
	cliApp.SetCurrentUserID(currentUser)

	return cliApp
}
