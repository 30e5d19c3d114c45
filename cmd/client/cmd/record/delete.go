package record

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldkeeper/internal/app/client"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <record-id>",
	Short: "Archive a record",
	Long: `Archives the record's remote counterpart and removes it locally. The
remote copy is never physically deleted; if archiving fails the local
record is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("client is not initialized")
		}
		if !app.IsAuthenticated() {
			return fmt.Errorf("authentication required, run: fieldkeeper auth token")
		}

		if err := app.ArchiveRecord(cmd.Context(), args[0]); err != nil {
			return err
		}

		color.Green("Record archived: %s", args[0])
		return nil
	},
}
