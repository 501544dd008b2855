package achievement

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/achievements/application/commands"
	"github.com/spf13/cobra"
)

var (
	checkHabit string
	checkType  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate the rules and unlock what you have earned",
	Long: `Evaluate every achievement rule against your progress and store the ones
you have earned. Running it again unlocks nothing new.

Types: MILESTONE, STREAK, CONSISTENCY, DEDICATION, VARIETY, OVERACHIEVER, PERSEVERANCE

Examples:
  habittracker achievement check
  habittracker achievement check --type STREAK
  habittracker achievement check --habit abc123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("achievement check")
		if err != nil {
			return err
		}

		check := commands.CheckAndUnlockCommand{
			UserID: app.CurrentUserID,
			Type:   checkType,
		}
		if checkHabit != "" {
			habitID, err := cli.ParseID(checkHabit, "habit")
			if err != nil {
				return err
			}
			check.HabitID = &habitID
		}

		result, err := app.CheckAndUnlockHandler.Handle(cmd.Context(), check)
		if err != nil {
			return fmt.Errorf("failed to check achievements: %w", err)
		}

		return cli.Render(cmd, result, func(w io.Writer) {
			if result.NewlyUnlockedCount == 0 {
				fmt.Fprintln(w, "No new achievements. Keep going!")
				return
			}
			fmt.Fprintf(w, "Unlocked %d achievement(s):\n", result.NewlyUnlockedCount)
			for _, a := range result.NewlyUnlocked {
				fmt.Fprintf(w, "  %s %s - %s\n", a.Icon, a.Name, a.Description)
				if a.HabitID != nil && *a.HabitID != uuid.Nil && cli.Verbose() {
					fmt.Fprintf(w, "      habit: %s\n", *a.HabitID)
				}
			}
		})
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkHabit, "habit", "", "habit that triggered the check")
	checkCmd.Flags().StringVarP(&checkType, "type", "t", "", "only evaluate rules of this type")
}
