package habit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/adapter/cli"
	internalApp "github.com/jplande/HabitTracker/internal/app"
	"github.com/jplande/HabitTracker/internal/habits/application/queries"
	mcpinternal "github.com/jplande/HabitTracker/internal/mcp"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/database"
	"github.com/jplande/HabitTracker/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testUserID is the user seeded by the container
var testUserID = uuid.MustParse(config.DefaultUserID)

// setupTestApp wires the CLI against an in-memory SQLite store.
func setupTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:     "test",
		SQLitePath: database.MemoryPath,
		LogLevel:   "error",
		UserID:     testUserID.String(),
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := mcpinternal.NewCLIApp(container, testUserID)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app
}

func resetCreateFlags() {
	description = ""
	category = "AUTRE"
	frequency = "daily"
	unit = "fois"
	target = 0
	createCmd.Flags().Lookup("target").Changed = false
}

// createHabit runs "habit create" and returns the new habit ID.
func createHabit(t *testing.T, title string) uuid.UUID {
	t.Helper()

	var out bytes.Buffer
	cli.SetJSONOutput(true)
	defer cli.SetJSONOutput(false)
	createCmd.SetOut(&out)
	createCmd.SetContext(context.Background())

	require.NoError(t, createCmd.RunE(createCmd, []string{title}))

	var result struct {
		HabitID uuid.UUID `json:"habit_id"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.NotEqual(t, uuid.Nil, result.HabitID)
	return result.HabitID
}

func TestCreateCmd_CreatesHabit(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	resetCreateFlags()
	category = "sport"
	unit = "km"
	require.NoError(t, createCmd.Flags().Set("target", "5"))

	habitID := createHabit(t, "Course")

	habit, err := app.GetHabitHandler.Handle(ctx, queries.GetHabitQuery{
		UserID:  app.CurrentUserID,
		HabitID: habitID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Course", habit.Title)
	assert.Equal(t, "SPORT", habit.Category)
	assert.Equal(t, "DAILY", habit.Frequency)
	assert.Equal(t, "km", habit.Unit)
	require.NotNil(t, habit.Target)
	assert.Equal(t, 5.0, *habit.Target)
	assert.True(t, habit.Active)
}

func TestCreateCmd_RejectsUnknownCategory(t *testing.T) {
	setupTestApp(t)

	resetCreateFlags()
	category = "LOISIRS"
	createCmd.SetContext(context.Background())

	err := createCmd.RunE(createCmd, []string{"Peinture"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidArgument)
}

func TestListCmd_ShowsHabits(t *testing.T) {
	setupTestApp(t)

	resetCreateFlags()
	createHabit(t, "Lecture")
	createHabit(t, "Meditation")

	var out bytes.Buffer
	listCmd.SetOut(&out)
	listCmd.SetContext(context.Background())
	showInactive = false
	filterCategory = ""

	require.NoError(t, listCmd.RunE(listCmd, nil))
	assert.Contains(t, out.String(), "Habits (2):")
	assert.Contains(t, out.String(), "Lecture")
	assert.Contains(t, out.String(), "Meditation")
}

func TestDeactivateAndActivate(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()

	resetCreateFlags()
	habitID := createHabit(t, "Journal")

	var out bytes.Buffer
	deactivateCmd.SetOut(&out)
	deactivateCmd.SetContext(ctx)
	require.NoError(t, deactivateCmd.RunE(deactivateCmd, []string{habitID.String()}))

	active, err := app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{UserID: app.CurrentUserID, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	activateCmd.SetOut(&out)
	activateCmd.SetContext(ctx)
	require.NoError(t, activateCmd.RunE(activateCmd, []string{habitID.String()}))

	active, err = app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{UserID: app.CurrentUserID})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestShowCmd_InvalidID(t *testing.T) {
	setupTestApp(t)

	showCmd.SetContext(context.Background())
	err := showCmd.RunE(showCmd, []string{"not-a-uuid"})
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidArgument)
}

func TestCommands_WithoutApp(t *testing.T) {
	cli.SetApp(nil)

	listCmd.SetContext(context.Background())
	err := listCmd.RunE(listCmd, nil)
	assert.ErrorIs(t, err, cli.ErrNotConnected)
}
