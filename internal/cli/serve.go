package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lql-project/lql/internal/daemon"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to TOML config file")
	serveCmd.Flags().IntP("port", "p", 0, "Override the listen port")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Start the lql daemon. All state is held in memory; enable the SQLite
archive in the config file to keep an on-disk copy of the points ledger.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := daemon.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.API.Port = port
	}
	return daemon.Run(cfg)
}
