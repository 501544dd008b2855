package habit

import (
	"fmt"
	"io"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/habits/application/commands"
	"github.com/spf13/cobra"
)

var (
	newTitle       string
	newDescription string
	newCategory    string
	newFrequency   string
	newUnit        string
	newTarget      float64
	clearTarget    bool
)

var updateCmd = &cobra.Command{
	Use:   "update [habit-id]",
	Short: "Update a habit",
	Long: `Change one or more fields of a habit. Only the flags you pass are changed.

Examples:
  habittracker habit update abc123 --target 10
  habittracker habit update abc123 --title "Course du matin" --category SPORT
  habittracker habit update abc123 --clear-target`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("habit update")
		if err != nil {
			return err
		}

		habitID, err := cli.ParseID(args[0], "habit")
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		update := commands.UpdateHabitCommand{
			UserID:      app.CurrentUserID,
			HabitID:     habitID,
			ClearTarget: clearTarget,
		}
		if flags.Changed("title") {
			update.Title = &newTitle
		}
		if flags.Changed("description") {
			update.Description = &newDescription
		}
		if flags.Changed("category") {
			update.Category = &newCategory
		}
		if flags.Changed("frequency") {
			update.Frequency = &newFrequency
		}
		if flags.Changed("unit") {
			update.Unit = &newUnit
		}
		if flags.Changed("target") {
			update.Target = &newTarget
		}

		if err := app.UpdateHabitHandler.Handle(cmd.Context(), update); err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}

		return cli.Render(cmd, map[string]any{"habit_id": habitID, "updated": true}, func(w io.Writer) {
			fmt.Fprintf(w, "Updated habit %s\n", habitID)
		})
	},
}

func init() {
	updateCmd.Flags().StringVar(&newTitle, "title", "", "new title")
	updateCmd.Flags().StringVarP(&newDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVarP(&newCategory, "category", "C", "", "new category")
	updateCmd.Flags().StringVarP(&newFrequency, "frequency", "f", "", "new frequency")
	updateCmd.Flags().StringVarP(&newUnit, "unit", "u", "", "new unit")
	updateCmd.Flags().Float64VarP(&newTarget, "target", "t", 0, "new target value")
	updateCmd.Flags().BoolVar(&clearTarget, "clear-target", false, "remove the target")
}
