// Package cli defines the lql command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "lql",
	Short: "Gamified personal productivity backend",
	Long: `lql turns daily planning into a points economy: finished to-dos earn
points, abandoned ones cost them, and the balance buys self-defined rewards.
Quests track longer goals through stages, laws let an AI collaborator score
diary entries against your own rules.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lql version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "lql %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
