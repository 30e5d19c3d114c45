package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fieldkeeper/internal/app/client"
)

var userID int

var Cmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate against the fieldkeeper server",
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Obtain and store a bearer token",
	Long: `Obtains an access token from the server using the operator
provisioning key and stores it for later commands. The key is prompted
and never echoed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		fmt.Fprint(os.Stderr, "Provisioning key: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read provisioning key: %w", err)
		}

		token, err := app.IssueToken(cmd.Context(), userID, strings.TrimSpace(string(raw)))
		if err != nil {
			return err
		}

		if err := app.SaveToken(token); err != nil {
			return err
		}

		color.Green("Token stored for user %d", userID)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		if err := app.HealthCheck(cmd.Context()); err != nil {
			color.Red("Server unreachable: %v", err)
			return nil
		}

		if app.IsAuthenticated() {
			color.Green("Authenticated, server reachable")
		} else {
			color.Yellow("Not authenticated. Run: fieldkeeper auth token --user <id>")
		}
		return nil
	},
}

func init() {
	tokenCmd.Flags().IntVar(&userID, "user", 0, "user id to issue the token for")
	_ = tokenCmd.MarkFlagRequired("user")

	Cmd.AddCommand(tokenCmd)
	Cmd.AddCommand(statusCmd)
}
