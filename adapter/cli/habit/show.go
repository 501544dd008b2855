package habit

import (
	"fmt"
	"io"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/habits/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [habit-id]",
	Short: "Show one habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("habit lookup")
		if err != nil {
			return err
		}

		habitID, err := cli.ParseID(args[0], "habit")
		if err != nil {
			return err
		}

		habit, err := app.GetHabitHandler.Handle(cmd.Context(), queries.GetHabitQuery{
			UserID:  app.CurrentUserID,
			HabitID: habitID,
		})
		if err != nil {
			return err
		}

		return cli.Render(cmd, habit, func(w io.Writer) {
			fmt.Fprintf(w, "%s\n", habit.Title)
			if habit.Description != "" {
				fmt.Fprintf(w, "  %s\n", habit.Description)
			}
			fmt.Fprintf(w, "  ID:        %s\n", habit.ID)
			fmt.Fprintf(w, "  Category:  %s\n", habit.Category)
			fmt.Fprintf(w, "  Frequency: %s\n", habit.Frequency)
			fmt.Fprintf(w, "  Target:    %s\n", cli.FormatTarget(habit.Target, habit.Unit))
			fmt.Fprintf(w, "  Active:    %t\n", habit.Active)
			fmt.Fprintf(w, "  Created:   %s\n", habit.CreatedAt.Format("2006-01-02"))
		})
	},
}
