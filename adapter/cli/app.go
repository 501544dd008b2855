package cli

import (
	"net/http"

	"github.com/google/uuid"
	achievementCommands "github.com/jplande/HabitTracker/internal/achievements/application/commands"
	achievementQueries "github.com/jplande/HabitTracker/internal/achievements/application/queries"
	habitCommands "github.com/jplande/HabitTracker/internal/habits/application/commands"
	habitQueries "github.com/jplande/HabitTracker/internal/habits/application/queries"
	identityCommands "github.com/jplande/HabitTracker/internal/identity/application/commands"
	identityQueries "github.com/jplande/HabitTracker/internal/identity/application/queries"
	insightsQueries "github.com/jplande/HabitTracker/internal/insights/application/queries"
	"github.com/jplande/HabitTracker/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// User Handlers
	RegisterUserHandler *identityCommands.RegisterUserHandler
	GetUserHandler      *identityQueries.GetUserHandler

	// Habit Command Handlers
	CreateHabitHandler    *habitCommands.CreateHabitHandler
	UpdateHabitHandler    *habitCommands.UpdateHabitHandler
	SetHabitActiveHandler *habitCommands.SetHabitActiveHandler

	// Progress Command Handlers
	LogProgressHandler    *habitCommands.LogProgressHandler
	UpdateProgressHandler *habitCommands.UpdateProgressHandler
	DeleteProgressHandler *habitCommands.DeleteProgressHandler

	// Habit Query Handlers
	GetHabitHandler     *habitQueries.GetHabitHandler
	ListHabitsHandler   *habitQueries.ListHabitsHandler
	ListProgressHandler *habitQueries.ListProgressHandler

	// Statistics Handlers
	HabitStatisticsHandler *insightsQueries.GetHabitStatisticsHandler
	UserStatisticsHandler  *insightsQueries.GetUserStatisticsHandler
	CompareHabitsHandler   *insightsQueries.CompareHabitsHandler
	MonthlyTrendsHandler   *insightsQueries.GetMonthlyTrendsHandler
	ChartDataHandler       *insightsQueries.GetChartDataHandler

	// Achievement Handlers
	CheckAndUnlockHandler     *achievementCommands.CheckAndUnlockHandler
	ListAchievementsHandler   *achievementQueries.ListAchievementsHandler
	AchievementSummaryHandler *achievementQueries.GetAchievementSummaryHandler

	// Health reports the state of the store, cache and broker.
	Health *observability.HealthRegistry

	// MetricsHandler serves the Prometheus scrape endpoint; nil when the
	// container records metrics nowhere scrapeable.
	MetricsHandler http.Handler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
