package record

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldkeeper/internal/app/client"
)

var setFlags []string

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new record",
	Long: `Logs a new record against the active schema. Field values are given
as --set <field-id>=<value> pairs; unknown fields are rejected by the
server, missing ones fall back to the field's default.`,
	Example: `  fieldkeeper record add --set name="Oatmeal" --set calories=320 --set healthy=true`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("client is not initialized")
		}
		if !app.IsAuthenticated() {
			return fmt.Errorf("authentication required, run: fieldkeeper auth token")
		}
		if len(setFlags) == 0 {
			return fmt.Errorf("at least one --set <field-id>=<value> is required")
		}

		values := make(map[string]any, len(setFlags))
		for _, pair := range setFlags {
			id, raw, found := strings.Cut(pair, "=")
			if !found || id == "" {
				return fmt.Errorf("invalid --set value %q, expected <field-id>=<value>", pair)
			}
			values[id] = raw
		}

		rec, err := app.PushRecord(cmd.Context(), values)
		if err != nil {
			return fmt.Errorf("push record: %w", err)
		}

		color.Green("Record created: %s", rec.ID)
		if rec.RemoteID != "" {
			fmt.Printf("  remote: %s\n", rec.RemoteID)
		} else {
			color.Yellow("  no remote binding; the record is local-only and stays pending")
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringArrayVar(&setFlags, "set", nil, "field value as <field-id>=<value>, repeatable")
}
