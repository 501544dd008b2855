package insights

import (
	"fmt"
	"io"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/insights/application/queries"
	"github.com/spf13/cobra"
)

var (
	habitDays int
	userDays  int
)

var habitCmd = &cobra.Command{
	Use:   "habit [habit-id]",
	Short: "Statistics of one habit",
	Long: `Compute streaks, completion rate, value statistics and the trend of a habit
over a trailing window.

Examples:
  habittracker stats habit abc123
  habittracker stats habit abc123 --days 90`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("habit statistics")
		if err != nil {
			return err
		}

		habitID, err := cli.ParseID(args[0], "habit")
		if err != nil {
			return err
		}

		stats, err := app.HabitStatisticsHandler.Handle(cmd.Context(), queries.GetHabitStatisticsQuery{
			UserID:  app.CurrentUserID,
			HabitID: habitID,
			Days:    habitDays,
		})
		if err != nil {
			return err
		}

		return cli.Render(cmd, stats, func(w io.Writer) {
			fmt.Fprintf(w, "%s (last %d days)\n", stats.HabitTitle, stats.WindowDays)
			fmt.Fprintf(w, "  Entries:         %d\n", stats.TotalEntries)
			fmt.Fprintf(w, "  Completion rate: %.2f%%\n", stats.CompletionRate)
			fmt.Fprintf(w, "  Current streak:  %d\n", stats.CurrentStreak)
			fmt.Fprintf(w, "  Longest streak:  %d\n", stats.LongestStreak)
			fmt.Fprintf(w, "  Total:           %s %s\n", cli.FormatFloat(stats.TotalValue), stats.HabitUnit)
			fmt.Fprintf(w, "  Average:         %s (min %s, median %s, max %s)\n",
				cli.FormatFloat(stats.AverageValue),
				cli.FormatFloat(stats.MinValue),
				cli.FormatFloat(stats.MedianValue),
				cli.FormatFloat(stats.MaxValue),
			)
			fmt.Fprintf(w, "  Trend:           %s (%+.2f%%)\n", stats.Trend, stats.Improvement)
			if stats.HabitTarget != nil {
				fmt.Fprintf(w, "  Target reached:  %.2f%% of entries (target %s)\n",
					stats.TargetReachRate, cli.FormatTarget(stats.HabitTarget, stats.HabitUnit))
			}
			if stats.LastProgressDate == "" {
				fmt.Fprintln(w, "  Last progress:   never")
			} else {
				fmt.Fprintf(w, "  Last progress:   %s (%d days ago)\n", stats.LastProgressDate, stats.DaysSinceLastProgress)
			}
		})
	},
}

var userCmd = &cobra.Command{
	Use:     "me",
	Short:   "Your overall statistics",
	Aliases: []string{"user", "summary"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("user statistics")
		if err != nil {
			return err
		}

		stats, err := app.UserStatisticsHandler.Handle(cmd.Context(), queries.GetUserStatisticsQuery{
			UserID: app.CurrentUserID,
			Days:   userDays,
		})
		if err != nil {
			return err
		}

		return cli.Render(cmd, stats, func(w io.Writer) {
			fmt.Fprintf(w, "Activity (last %d days)\n", stats.WindowDays)
			fmt.Fprintf(w, "  Habits:           %d (%d active)\n", stats.TotalHabits, stats.ActiveHabits)
			fmt.Fprintf(w, "  Entries:          %d total, %d in window\n", stats.TotalProgress, stats.PeriodProgress)
			fmt.Fprintf(w, "  Per day:          %.2f\n", stats.AverageProgressPerDay)
			fmt.Fprintf(w, "  Current streak:   %d\n", stats.CurrentStreak)
			fmt.Fprintf(w, "  Best week:        %s\n", stats.BestWeek)
			fmt.Fprintf(w, "  Consistency:      %.2f%%\n", stats.Consistency)
			fmt.Fprintf(w, "  Achievements:     %d\n", stats.TotalAchievements)
		})
	},
}

func init() {
	habitCmd.Flags().IntVarP(&habitDays, "days", "d", queries.DefaultWindowDays, "window length in days")
	userCmd.Flags().IntVarP(&userDays, "days", "d", queries.DefaultWindowDays, "window length in days")
}
