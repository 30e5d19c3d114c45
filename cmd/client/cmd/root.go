package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	authcmd "fieldkeeper/cmd/client/cmd/auth"
	connectcmd "fieldkeeper/cmd/client/cmd/connect"
	recordcmd "fieldkeeper/cmd/client/cmd/record"
	schemacmd "fieldkeeper/cmd/client/cmd/schema"
	synccmd "fieldkeeper/cmd/client/cmd/sync"
	"fieldkeeper/internal/app/client"
	"fieldkeeper/internal/app/client/config"
	"fieldkeeper/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "fieldkeeper",
	Short: "Fieldkeeper - track custom fields and keep them synced",
	Long: `Fieldkeeper is a client for the fieldkeeper tracking service.

Define a schema of tracked fields, log records against it, and keep the
local record set consistent with your connected document-store collection.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log = logger.New(cfg.Env)

	app, err := client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	cmd.SetContext(client.IntoContext(cmd.Context(), app))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "fieldkeeper server base URL")

	rootCmd.AddCommand(authcmd.Cmd)
	rootCmd.AddCommand(synccmd.Cmd)
	rootCmd.AddCommand(recordcmd.Cmd)
	rootCmd.AddCommand(schemacmd.Cmd)
	rootCmd.AddCommand(connectcmd.Cmd)
}
