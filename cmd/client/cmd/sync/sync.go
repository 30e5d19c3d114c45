package sync

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldkeeper/internal/app/client"
)

var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a full sync and refresh the local mirror",
	Long: `Asks the server to reconcile against the connected document-store
collection and replaces the local mirror with the result. The remote set
is authoritative: local entries without a remote counterpart disappear
from the displayed set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("client is not initialized")
		}
		if !app.IsAuthenticated() {
			return fmt.Errorf("authentication required, run: fieldkeeper auth token")
		}

		records, err := app.FullSync(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		color.Green("Sync complete: %d records", len(records))
		return nil
	},
}
