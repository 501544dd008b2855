package achievement

import (
	"fmt"
	"io"
	"sort"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/achievements/application/queries"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Overview of your achievement collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("achievement summary")
		if err != nil {
			return err
		}

		summary, err := app.AchievementSummaryHandler.Handle(cmd.Context(), queries.GetAchievementSummaryQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to summarize achievements: %w", err)
		}

		return cli.Render(cmd, summary, func(w io.Writer) {
			fmt.Fprintf(w, "%s: %d / %d achievements (%.1f%%)\n",
				summary.UserName, summary.Total, summary.TotalPossible, summary.CompletionPercentage)
			fmt.Fprintf(w, "  This week:  %d\n", summary.ThisWeek)
			fmt.Fprintf(w, "  This month: %d\n", summary.ThisMonth)
			if summary.LastAchievementAt != nil {
				fmt.Fprintf(w, "  Latest:     %s (%s)\n",
					summary.LastAchievementName, summary.LastAchievementAt.Format("2006-01-02"))
			}

			types := make([]string, 0, len(summary.CountsByType))
			for t := range summary.CountsByType {
				types = append(types, t)
			}
			sort.Strings(types)
			if len(types) > 0 {
				fmt.Fprintln(w, "  By type:")
				for _, t := range types {
					fmt.Fprintf(w, "    %-14s %d\n", t, summary.CountsByType[t])
				}
			}

			fmt.Fprintf(w, "  Rarity:     %d common, %d rare, %d epic, %d legendary\n",
				summary.Rarity.Common, summary.Rarity.Rare, summary.Rarity.Epic, summary.Rarity.Legendary)
			fmt.Fprintf(w, "  Next tier:  %.0f%%\n", summary.ProgressToNext)
		})
	},
}
