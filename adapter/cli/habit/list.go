package habit

import (
	"fmt"
	"io"
	"strings"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/habits/application/queries"
	"github.com/spf13/cobra"
)

var (
	showInactive   bool
	filterCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Long: `List your habits, newest first.

Examples:
  habittracker habit list                    # Active habits
  habittracker habit list --all              # Include deactivated habits
  habittracker habit list --category SPORT   # One category only`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("habit listing")
		if err != nil {
			return err
		}

		habits, err := app.ListHabitsHandler.Handle(cmd.Context(), queries.ListHabitsQuery{
			UserID:          app.CurrentUserID,
			IncludeInactive: showInactive,
			Category:        filterCategory,
		})
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}

		return cli.Render(cmd, habits, func(w io.Writer) {
			if len(habits) == 0 {
				fmt.Fprintln(w, "No habits found. Create one with: habittracker habit create \"Title\"")
				return
			}

			fmt.Fprintf(w, "Habits (%d):\n", len(habits))
			fmt.Fprintln(w, strings.Repeat("-", 70))
			for _, h := range habits {
				status := ""
				if !h.Active {
					status = " [inactive]"
				}
				fmt.Fprintf(w, "%s (%s, %s) target: %s%s\n",
					h.Title,
					h.Category,
					strings.ToLower(h.Frequency),
					cli.FormatTarget(h.Target, h.Unit),
					status,
				)
				fmt.Fprintf(w, "    ID: %s\n", h.ID)
			}
		})
	},
}

func init() {
	listCmd.Flags().BoolVarP(&showInactive, "all", "a", false, "include deactivated habits")
	listCmd.Flags().StringVarP(&filterCategory, "category", "C", "", "filter by category")
}
