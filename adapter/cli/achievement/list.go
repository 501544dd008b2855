package achievement

import (
	"fmt"
	"io"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/achievements/application/queries"
	"github.com/spf13/cobra"
)

var (
	listType   string
	listRecent int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List unlocked achievements",
	Aliases: []string{"ls"},
	Long: `List your unlocked achievements, most recent first. Achievements unlocked
in the last three days are marked as new.

Examples:
  habittracker achievement list
  habittracker achievement list --type MILESTONE
  habittracker achievement list --recent 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("achievement list")
		if err != nil {
			return err
		}

		achievements, err := app.ListAchievementsHandler.Handle(cmd.Context(), queries.ListAchievementsQuery{
			UserID:     app.CurrentUserID,
			Type:       listType,
			RecentDays: listRecent,
		})
		if err != nil {
			return fmt.Errorf("failed to list achievements: %w", err)
		}

		return cli.Render(cmd, achievements, func(w io.Writer) {
			if len(achievements) == 0 {
				fmt.Fprintln(w, "No achievements yet.")
				return
			}
			for _, a := range achievements {
				marker := ""
				if a.IsNew {
					marker = " [new]"
				}
				fmt.Fprintf(w, "%s %s%s\n", a.Icon, a.Name, marker)
				fmt.Fprintf(w, "    %s\n", a.Description)
				fmt.Fprintf(w, "    %s · %s · %s\n", a.Type, a.Category, a.UnlockedAt.Format("2006-01-02"))
				if cli.Verbose() {
					fmt.Fprintf(w, "    id: %s\n", a.ID)
				}
			}
		})
	},
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "only list achievements of this type")
	listCmd.Flags().IntVar(&listRecent, "recent", 0, "only list achievements unlocked in the last N days")
}
