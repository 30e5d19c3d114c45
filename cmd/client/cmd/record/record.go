package record

import "github.com/spf13/cobra"

var Cmd = &cobra.Command{
	Use:   "record",
	Short: "Manage tracked records",
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(deleteCmd)
}
