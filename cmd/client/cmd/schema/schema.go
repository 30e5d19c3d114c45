package schema

import "github.com/spf13/cobra"

var Cmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage field schemas",
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(templatesCmd)
	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(useCmd)
	Cmd.AddCommand(activeCmd)
}
