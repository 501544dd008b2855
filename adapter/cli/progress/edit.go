package progress

import (
	"fmt"
	"io"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/habits/application/commands"
	"github.com/spf13/cobra"
)

var (
	updateValue string
	updateNote  string
)

var updateCmd = &cobra.Command{
	Use:   "update [entry-id]",
	Short: "Change the value or note of an entry",
	Long: `Change the value or note of a progress entry. At least one of --value
and --note is required.

Examples:
  habittracker progress update def456 --value 12
  habittracker progress update def456 --note ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("progress update")
		if err != nil {
			return err
		}

		entryID, err := cli.ParseID(args[0], "entry")
		if err != nil {
			return err
		}

		update := commands.UpdateProgressCommand{
			UserID:  app.CurrentUserID,
			EntryID: entryID,
		}
		if cmd.Flags().Changed("value") {
			value, err := parseValue(updateValue)
			if err != nil {
				return err
			}
			update.Value = &value
		}
		if cmd.Flags().Changed("note") {
			update.Note = &updateNote
		}

		if err := app.UpdateProgressHandler.Handle(cmd.Context(), update); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}

		return cli.Render(cmd, map[string]any{"entry_id": entryID, "updated": true}, func(w io.Writer) {
			fmt.Fprintf(w, "Updated entry %s\n", entryID)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete [entry-id]",
	Short:   "Delete a progress entry",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("progress deletion")
		if err != nil {
			return err
		}

		entryID, err := cli.ParseID(args[0], "entry")
		if err != nil {
			return err
		}

		if err := app.DeleteProgressHandler.Handle(cmd.Context(), commands.DeleteProgressCommand{
			UserID:  app.CurrentUserID,
			EntryID: entryID,
		}); err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}

		return cli.Render(cmd, map[string]any{"entry_id": entryID, "deleted": true}, func(w io.Writer) {
			fmt.Fprintf(w, "Deleted entry %s\n", entryID)
		})
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateValue, "value", "", "new value")
	updateCmd.Flags().StringVarP(&updateNote, "note", "n", "", "new note")
}
