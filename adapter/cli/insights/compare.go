package insights

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/insights/application/queries"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Rank your active habits by 30-day consistency",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("habit comparison")
		if err != nil {
			return err
		}

		comparison, err := app.CompareHabitsHandler.Handle(cmd.Context(), queries.CompareHabitsQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return err
		}

		return cli.Render(cmd, comparison, func(w io.Writer) {
			if comparison.TotalHabits == 0 {
				fmt.Fprintln(w, "No active habits to compare.")
				return
			}
			fmt.Fprintf(w, "%-4s %-30s %-12s %8s %12s %7s\n", "#", "HABIT", "CATEGORY", "ENTRIES", "CONSISTENCY", "STREAK")
			fmt.Fprintln(w, strings.Repeat("-", 78))
			for i, h := range comparison.Habits {
				fmt.Fprintf(w, "%-4d %-30s %-12s %8d %11.2f%% %7d\n",
					i+1, truncate(h.Title, 30), h.Category, h.ProgressCount, h.Consistency, h.CurrentStreak)
			}
			fmt.Fprintln(w, strings.Repeat("-", 78))
			fmt.Fprintf(w, "Average consistency: %.2f%%\n", comparison.AverageConsistency)
			if comparison.BestHabit != nil {
				fmt.Fprintf(w, "Best habit: %s\n", comparison.BestHabit.Title)
			}
		})
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Monthly entry counts and averages over the last 6 months",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("monthly trends")
		if err != nil {
			return err
		}

		trends, err := app.MonthlyTrendsHandler.Handle(cmd.Context(), queries.GetMonthlyTrendsQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return err
		}

		return cli.Render(cmd, trends, func(w io.Writer) {
			months := make([]string, 0, len(trends.MonthlyAverages))
			for month := range trends.MonthlyAverages {
				months = append(months, month)
			}
			sort.Strings(months)

			fmt.Fprintf(w, "%-8s %8s %10s\n", "MONTH", "ENTRIES", "AVERAGE")
			for _, month := range months {
				fmt.Fprintf(w, "%-8s %8d %10.2f\n", month, trends.MonthlyProgress[month], trends.MonthlyAverages[month])
			}
			fmt.Fprintf(w, "\nOverall trend:     %s\n", trends.OverallTrend)
			fmt.Fprintf(w, "Most active month: %s\n", trends.MostActiveMonth)
			fmt.Fprintf(w, "Growth rate:       %+.2f%%\n", trends.GrowthRate)
		})
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
