package connect

import (
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fieldkeeper/internal/app/client"
)

var Cmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a document-store collection",
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange <auth-code>",
	Short: "Exchange an OAuth code for a document-store token",
	Long: `Exchanges the OAuth authorization code with the document store. The
server keeps the resulting token in your settings; a copy is sealed into
the local keystore under a passphrase of your choice.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		accessToken, workspace, err := app.ExchangeAuthCode(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		color.Green("Connected to workspace %q", workspace)

		passphrase, err := promptPassphrase("Keystore passphrase: ")
		if err != nil {
			return err
		}
		if err := app.Keystore().Save(passphrase, accessToken); err != nil {
			return fmt.Errorf("seal token into keystore: %w", err)
		}
		fmt.Println("Token sealed into the local keystore")
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search reachable collections",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		results, err := app.SearchCollections(cmd.Context())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			color.Yellow("No collections visible to the integration")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%s  %s\n", color.CyanString(r.ID), r.Title)
		}
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create <parent-page-id> <name>",
	Short: "Create a collection shaped by the active schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		id, err := app.CreateCollection(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		color.Green("Collection created and bound: %s", id)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check whether the stored connection still works",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		ok, err := app.VerifyConnection(cmd.Context())
		if err != nil {
			return err
		}
		if ok {
			color.Green("Connection is valid")
		} else {
			color.Red("Connection is broken or not configured")
		}
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [collection-id]",
	Short: "Describe a collection's columns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := mustApp(cmd)
		if err != nil {
			return err
		}

		collectionID := ""
		if len(args) > 0 {
			collectionID = args[0]
		}

		cs, err := app.AnalyzeCollection(cmd.Context(), collectionID)
		if err != nil {
			return err
		}

		fmt.Println(color.CyanString(cs.Title))
		for _, c := range cs.Columns {
			fmt.Printf("  %-20s %-12s %s\n", c.Name, c.Kind, c.ID)
		}
		return nil
	},
}

func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(raw), nil
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

func init() {
	Cmd.AddCommand(exchangeCmd)
	Cmd.AddCommand(searchCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(verifyCmd)
	Cmd.AddCommand(analyzeCmd)
}
