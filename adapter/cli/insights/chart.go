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

var (
	chartType string
	chartDays int
)

var chartCmd = &cobra.Command{
	Use:   "chart [habit-id]",
	Short: "Chart data for a habit",
	Long: `Produce chart data for a habit. Types:

  line     one value per day, with the target as a second series
  bar      one value per day
  weekly   weekly averages over the last 8 weeks
  heatmap  active days over the window

Use --json to feed the data to a plotting tool.

Examples:
  habittracker stats chart abc123 --type line --days 14
  habittracker stats chart abc123 --type heatmap --days 90 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("chart data")
		if err != nil {
			return err
		}

		habitID, err := cli.ParseID(args[0], "habit")
		if err != nil {
			return err
		}

		chart, err := app.ChartDataHandler.Handle(cmd.Context(), queries.GetChartDataQuery{
			UserID:  app.CurrentUserID,
			HabitID: habitID,
			Type:    chartType,
			Days:    chartDays,
		})
		if err != nil {
			return err
		}

		return cli.Render(cmd, chart, func(w io.Writer) {
			if chart.Type == queries.ChartHeatmap {
				renderHeatmap(w, chart)
				return
			}
			renderSeries(w, chart)
		})
	},
}

func renderSeries(w io.Writer, chart *queries.ChartData) {
	header := []string{fmt.Sprintf("%-9s", "LABEL")}
	for _, ds := range chart.Datasets {
		header = append(header, ds.Label)
	}
	fmt.Fprintln(w, strings.Join(header, "  "))
	for i, label := range chart.Labels {
		row := []string{fmt.Sprintf("%-9s", label)}
		for _, ds := range chart.Datasets {
			if i < len(ds.Data) {
				row = append(row, fmt.Sprintf("%*s", len(ds.Label), cli.FormatFloat(ds.Data[i])))
			}
		}
		fmt.Fprintln(w, strings.Join(row, "  "))
	}
}

func renderHeatmap(w io.Writer, chart *queries.ChartData) {
	days := make([]string, 0, len(chart.Heatmap))
	for day := range chart.Heatmap {
		days = append(days, day)
	}
	sort.Strings(days)

	var b strings.Builder
	for i, day := range days {
		if i > 0 && i%7 == 0 {
			b.WriteByte('\n')
		}
		if chart.Heatmap[day] > 0 {
			b.WriteString("■ ")
		} else {
			b.WriteString("□ ")
		}
	}
	fmt.Fprintln(w, b.String())
	fmt.Fprintf(w, "Active days: %d / %d\n", chart.ActiveDays, chart.TotalDays)
}

func init() {
	chartCmd.Flags().StringVarP(&chartType, "type", "t", string(queries.ChartLine), "chart type (line, bar, weekly, heatmap)")
	chartCmd.Flags().IntVarP(&chartDays, "days", "d", queries.DefaultWindowDays, "window length in days")
}
