package user

import (
	"fmt"
	"io"

	"github.com/jplande/HabitTracker/adapter/cli"
	"github.com/jplande/HabitTracker/internal/identity/application/commands"
	"github.com/jplande/HabitTracker/internal/identity/application/queries"
	"github.com/spf13/cobra"
)

// Cmd is the user command group
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var (
	registerEmail string
	registerName  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user",
	Long: `Register a new user. The email must be unique.

Select the user for later commands with HABITTRACKER_USER_ID.

Examples:
  habittracker user register --email ada@example.com --name "Ada"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("user registration")
		if err != nil {
			return err
		}

		result, err := app.RegisterUserHandler.Handle(cmd.Context(), commands.RegisterUserCommand{
			Email: registerEmail,
			Name:  registerName,
		})
		if err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}

		return cli.Render(cmd, map[string]any{"user_id": result.UserID}, func(w io.Writer) {
			fmt.Fprintf(w, "Registered user %s\n", result.UserID)
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show a user (defaults to the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp("user details")
		if err != nil {
			return err
		}

		userID := app.CurrentUserID
		if len(args) == 1 {
			if userID, err = cli.ParseID(args[0], "user"); err != nil {
				return err
			}
		}

		u, err := app.GetUserHandler.Handle(cmd.Context(), queries.GetUserQuery{UserID: userID})
		if err != nil {
			return err
		}

		return cli.Render(cmd, u, func(w io.Writer) {
			status := "active"
			if !u.Active {
				status = "inactive"
			}
			fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
			fmt.Fprintf(w, "  ID:     %s\n", u.ID)
			fmt.Fprintf(w, "  Status: %s\n", status)
		})
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("name")

	Cmd.AddCommand(registerCmd)
	Cmd.AddCommand(showCmd)
}
