package schema

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldkeeper/internal/app/client"
	"fieldkeeper/internal/domain/schema"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your schemas",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		schemas, err := app.ListSchemas(cmd.Context())
		if err != nil {
			return err
		}
		if len(schemas) == 0 {
			color.Yellow("No schemas yet. Run: fieldkeeper schema init <template-id>")
			return nil
		}

		for _, s := range schemas {
			fmt.Printf("%s  %s (v%d, %d fields)\n",
				color.CyanString(s.ID), s.Name, s.Version, len(s.Fields))
		}
		return nil
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List built-in schema templates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		templates, err := app.ListTemplates(cmd.Context())
		if err != nil {
			return err
		}

		for _, t := range templates {
			fmt.Printf("%s  %s (v%d)\n", color.CyanString("%-14s", t.ID), t.Name, t.Version)
			for _, f := range t.Fields {
				fmt.Printf("    %-14s %s\n", f.ID, f.Kind)
			}
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init <template-id>",
	Short: "Create a schema from a template and activate it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		s, err := app.InstantiateTemplate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := app.ActivateSchema(cmd.Context(), s.ID); err != nil {
			return err
		}

		color.Green("Schema %q created and activated: %s", s.Name, s.ID)
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use <schema-id>",
	Short: "Mark a schema as active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		if err := app.ActivateSchema(cmd.Context(), args[0]); err != nil {
			return err
		}
		color.Green("Active schema: %s", args[0])
		return nil
	},
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		s, err := app.GetActiveSchema(cmd.Context())
		if err != nil {
			return err
		}
		if s == nil {
			color.Yellow("No schema; the built-in legacy field set applies")
			return nil
		}

		fmt.Printf("%s  %s (v%d)\n", color.CyanString(s.ID), s.Name, s.Version)
		for _, f := range s.Fields {
			printField(f)
		}
		return nil
	},
}

func printField(f schema.FieldConfig) {
	required := ""
	if f.Required {
		required = " required"
	}
	fmt.Printf("  %-14s %-12s %s%s\n", f.ID, f.Kind, f.DisplayName, required)
}

func mustApp(cmd *cobra.Command) (*client.App, error) {
	app, ok := client.FromContext(cmd.Context())
	if !ok {
		return nil, fmt.Errorf("client is not initialized")
	}
	if !app.IsAuthenticated() {
		return nil, fmt.Errorf("authentication required, run: fieldkeeper auth token")
	}
	return app, nil
}
