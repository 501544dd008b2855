package progress

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/adapter/cli"
	achievementCommands "github.com/jplande/HabitTracker/internal/achievements/application/commands"
	"github.com/jplande/HabitTracker/internal/habits/application/commands"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/spf13/cobra"
)

var (
	logDay   string
	logNote  string
	noUnlock bool
)

type logOutput struct {
	EntryID  uuid.UUID                                 `json:"entry_id"`
	Day      sharedDomain.Day                          `json:"day"`
	Value    float64                                   `json:"value"`
	Unlocked []achievementCommands.UnlockedAchievement `json:"unlocked,omitempty"`
}

var logCmd = &cobra.Command{
	Use:   "log [habit-id] [value]",
	Short: "Log progress for a habit",
	Long: `Record a value for a habit on a day (today by default). One entry per
habit and day; use "progress update" to change it. Achievements are checked
right after the entry is stored.

Examples:
  habittracker progress log abc123 5
  habittracker progress log abc123 30 --day 2026-03-14 --note "sortie longue"`,
	Aliases: []string{"add"},
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("progress logging")
		if err != nil {
			return err
		}

		habitID, err := cli.ParseID(args[0], "habit")
		if err != nil {
			return err
		}
		value, err := parseValue(args[1])
		if err != nil {
			return err
		}
		day, err := cli.ParseDay(logDay)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		result, err := app.LogProgressHandler.Handle(ctx, commands.LogProgressCommand{
			UserID:  app.CurrentUserID,
			HabitID: habitID,
			Day:     day,
			Value:   value,
			Note:    logNote,
		})
		if err != nil {
			return fmt.Errorf("failed to log progress: %w", err)
		}

		out := logOutput{EntryID: result.EntryID, Day: result.Day, Value: value}
		if !noUnlock && app.CheckAndUnlockHandler != nil {
			unlocked, err := app.CheckAndUnlockHandler.Handle(ctx, achievementCommands.CheckAndUnlockCommand{
				UserID:  app.CurrentUserID,
				HabitID: &habitID,
			})
			if err != nil {
				// The entry is stored; a failed check is retried on the next log.
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: achievement check failed: %v\n", err)
			} else {
				out.Unlocked = unlocked.NewlyUnlocked
			}
		}

		return cli.Render(cmd, out, func(w io.Writer) {
			fmt.Fprintf(w, "Logged %s on %s\n", cli.FormatFloat(value), result.Day)
			fmt.Fprintf(w, "  Entry ID: %s\n", result.EntryID)
			for _, a := range out.Unlocked {
				fmt.Fprintf(w, "  %s Achievement unlocked: %s (%s)\n", a.Icon, a.Name, a.Description)
			}
		})
	},
}

func init() {
	logCmd.Flags().StringVar(&logDay, "day", "", "day of the entry (YYYY-MM-DD, default today)")
	logCmd.Flags().StringVarP(&logNote, "note", "n", "", "note about this entry")
	logCmd.Flags().BoolVar(&noUnlock, "no-achievements", false, "skip the achievement check")
}
