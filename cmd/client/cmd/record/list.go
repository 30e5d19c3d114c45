package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldkeeper/internal/app/client"
	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/domain/schema"
)

var refresh bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records from the local mirror",
	Long: `Lists records from the local mirror. With --refresh a full sync runs
first; without it the command works offline against the last synced set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := client.FromContext(cmd.Context())
		if !ok {
			return fmt.Errorf("client is not initialized")
		}

		var records []record.Record
		var err error

		if refresh {
			if !app.IsAuthenticated() {
				return fmt.Errorf("authentication required for --refresh")
			}
			records, err = app.FullSync(cmd.Context())
		} else {
			records, err = app.Mirror().List()
		}
		if err != nil {
			return err
		}

		if len(records) == 0 {
			color.Yellow("No records. Run: fieldkeeper sync")
			return nil
		}

		for _, rec := range records {
			title := titleOf(rec)
			fmt.Printf("%s  %s  %s\n",
				color.CyanString(rec.LoggedAt.Format(time.DateTime)),
				color.WhiteString("%-30s", title),
				rec.ID)
		}
		fmt.Printf("\n%d records\n", len(records))
		return nil
	},
}

func titleOf(rec record.Record) string {
	for _, v := range rec.Values {
		if v.Kind == schema.KindTitle {
			return v.Text
		}
	}
	// No title value; fall back to whatever text is around.
	var parts []string
	for _, v := range rec.Values {
		if v.Text != "" {
			parts = append(parts, v.Text)
		}
	}
	return strings.Join(parts, " ")
}

func init() {
	listCmd.Flags().BoolVar(&refresh, "refresh", false, "run a full sync before listing")
}
