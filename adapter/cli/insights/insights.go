package insights

import "github.com/spf13/cobra"

// Cmd is the statistics command group
var Cmd = &cobra.Command{
	Use:     "stats",
	Short:   "Statistics, trends and charts",
	Long:    `Analyse your progress: per-habit statistics, your overall activity, habit rankings, monthly trends and chart data.`,
	Aliases: []string{"insights"},
}

func init() {
	Cmd.AddCommand(habitCmd)
	Cmd.AddCommand(userCmd)
	Cmd.AddCommand(compareCmd)
	Cmd.AddCommand(trendsCmd)
	Cmd.AddCommand(chartCmd)
}
