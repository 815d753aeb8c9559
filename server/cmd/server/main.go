package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/propdash/propdash/server/internal/config"
)

func main() {
	// Secrets such as the API key may live in a local .env file.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "propdash-server",
		Short: "Consolidates tenant metrics into dashboard sections and health verdicts",
		Long: `propdash-server receives raw metric snapshots from tenant agents, evaluates
them with the consolidation engine and serves dashboard-ready JSON.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to config file (defaults apply when empty)")

	root.AddCommand(newServeCmd(), newEvalCmd())
	return root
}

// loadConfig loads the file named by --config, or the defaults when unset.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
