package habit

import (
	"fmt"
	"io"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/habits/application/commands"
	"github.com/spf13/cobra"
)

var (
	description string
	category    string
	frequency   string
	unit        string
	target      float64
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new habit",
	Long: `Create a new habit to track.

Categories: SPORT, SANTE, EDUCATION, TRAVAIL, LIFESTYLE, SOCIAL, CREATIVITE, FINANCE, AUTRE
Frequencies: daily, weekly, monthly

Examples:
  habittracker habit create "Course" --category SPORT --unit km --target 5
  habittracker habit create "Lecture" --unit pages --target 20
  habittracker habit create "Meditation" --unit minutes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("habit creation")
		if err != nil {
			return err
		}

		createCmd := commands.CreateHabitCommand{
			UserID:      app.CurrentUserID,
			Title:       args[0],
			Description: description,
			Category:    category,
			Frequency:   frequency,
			Unit:        unit,
		}
		if cmd.Flags().Changed("target") {
			t := target
			createCmd.Target = &t
		}

		result, err := app.CreateHabitHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}

		return cli.Render(cmd, result, func(w io.Writer) {
			fmt.Fprintf(w, "Created habit: %s\n", args[0])
			fmt.Fprintf(w, "  ID: %s\n", result.HabitID)
		})
	},
}

func init() {
	createCmd.Flags().StringVarP(&description, "description", "d", "", "habit description")
	createCmd.Flags().StringVarP(&category, "category", "C", "AUTRE", "habit category")
	createCmd.Flags().StringVarP(&frequency, "frequency", "f", "daily", "frequency (daily, weekly, monthly)")
	createCmd.Flags().StringVarP(&unit, "unit", "u", "fois", "unit of measure")
	createCmd.Flags().Float64VarP(&target, "target", "t", 0, "daily target value")
}
