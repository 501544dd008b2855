package progress

import "github.com/spf13/cobra"

// Cmd is the progress command group
var Cmd = &cobra.Command{
	Use:     "progress",
	Short:   "Record and manage daily progress",
	Aliases: []string{"p"},
}

func init() {
	Cmd.AddCommand(logCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(deleteCmd)
}
