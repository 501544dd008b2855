package habit

import (
	"fmt"
	"io"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/habits/application/commands"
	"github.com/spf13/cobra"
)

var deactivateCmd = &cobra.Command{
	Use:     "deactivate [habit-id]",
	Short:   "Deactivate a habit",
	Long:    `Deactivate a habit. Its history is kept and it can be restored with "habit activate".`,
	Aliases: []string{"archive"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("habit deactivation")
		if err != nil {
			return err
		}

		habitID, err := cli.ParseID(args[0], "habit")
		if err != nil {
			return err
		}

		if err := app.SetHabitActiveHandler.Deactivate(cmd.Context(), commands.DeactivateHabitCommand{
			UserID:  app.CurrentUserID,
			HabitID: habitID,
		}); err != nil {
			return fmt.Errorf("failed to deactivate habit: %w", err)
		}

		return cli.Render(cmd, map[string]any{"habit_id": habitID, "active": false}, func(w io.Writer) {
			fmt.Fprintf(w, "Deactivated habit %s\n", habitID)
		})
	},
}

var activateCmd = &cobra.Command{
	Use:     "activate [habit-id]",
	Short:   "Restore a deactivated habit",
	Aliases: []string{"restore"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("habit activation")
		if err != nil {
			return err
		}

		habitID, err := cli.ParseID(args[0], "habit")
		if err != nil {
			return err
		}

		if err := app.SetHabitActiveHandler.Activate(cmd.Context(), commands.ActivateHabitCommand{
			UserID:  app.CurrentUserID,
			HabitID: habitID,
		}); err != nil {
			return fmt.Errorf("failed to activate habit: %w", err)
		}

		return cli.Render(cmd, map[string]any{"habit_id": habitID, "active": true}, func(w io.Writer) {
			fmt.Fprintf(w, "Activated habit %s\n", habitID)
		})
	},
}
