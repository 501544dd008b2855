package achievement

import "github.com/spf13/cobra"

// Cmd is the achievement command group
var Cmd = &cobra.Command{
	Use:     "achievement",
	Short:   "Check and browse achievements",
	Aliases: []string{"achievements", "ach"},
}

func init() {
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(summaryCmd)
}
