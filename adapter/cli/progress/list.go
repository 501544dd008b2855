package progress

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/habits/application/queries"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/spf13/cobra"
)

var (
	listDays int
	listFrom string
	listTo   string
)

var listCmd = &cobra.Command{
	Use:   "list [habit-id]",
	Short: "List progress entries of a habit",
	Long: `List the entries of a habit inside a window, newest day first.

Examples:
  habittracker progress list abc123                  # Last 30 days
  habittracker progress list abc123 --days 7
  habittracker progress list abc123 --from 2026-01-01 --to 2026-01-31`,
	Aliases: []string{"ls"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("progress listing")
		if err != nil {
			return err
		}

		habitID, err := cli.ParseID(args[0], "habit")
		if err != nil {
			return err
		}
		window, err := resolveWindow(listFrom, listTo, listDays)
		if err != nil {
			return err
		}

		entries, err := app.ListProgressHandler.Handle(cmd.Context(), queries.ListProgressQuery{
			UserID:  app.CurrentUserID,
			HabitID: habitID,
			Window:  window,
		})
		if err != nil {
			return fmt.Errorf("failed to list progress: %w", err)
		}

		return cli.Render(cmd, entries, func(w io.Writer) {
			if len(entries) == 0 {
				fmt.Fprintf(w, "No progress between %s and %s.\n", window.Start, window.End)
				return
			}
			fmt.Fprintf(w, "Progress %s to %s (%d entries):\n", window.Start, window.End, len(entries))
			fmt.Fprintln(w, strings.Repeat("-", 50))
			for _, e := range entries {
				note := ""
				if e.Note != "" {
					note = "  " + e.Note
				}
				fmt.Fprintf(w, "%s  %8s%s\n", e.Day, cli.FormatFloat(e.Value), note)
				if cli.Verbose() {
					fmt.Fprintf(w, "    ID: %s\n", e.ID)
				}
			}
		})
	},
}

// resolveWindow prefers an explicit --from/--to range over a trailing --days window.
func resolveWindow(from, to string, days int) (sharedDomain.Window, error) {
	today := sharedDomain.Today()
	if from == "" && to == "" {
		return sharedDomain.TrailingWindow(today, days)
	}

	start, err := cli.ParseDay(from)
	if err != nil {
		return sharedDomain.Window{}, err
	}
	end, err := cli.ParseDay(to)
	if err != nil {
		return sharedDomain.Window{}, err
	}
	if end.IsZero() {
		end = today
	}
	if start.IsZero() {
		start = end.AddDays(-(days - 1))
	}
	return sharedDomain.NewWindow(start, end)
}

func parseValue(arg string) (float64, error) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(arg, ",", "."), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: invalid value %q", sharedDomain.ErrInvalidArgument, arg)
	}
	return value, nil
}

func init() {
	listCmd.Flags().IntVarP(&listDays, "days", "d", 30, "length of the trailing window")
	listCmd.Flags().StringVar(&listFrom, "from", "", "first day (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "last day (YYYY-MM-DD, default today)")
}
