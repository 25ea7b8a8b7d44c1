package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is stamped at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "debugbar",
		Short: "Serve and inspect request debug snapshots",
		Long: `debugbar runs a demo application with the debug bar mounted and inspects
the snapshots it stores.

Settings come from an optional YAML file and DEBUGBAR_* environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")

	root.AddCommand(newServeCmd(&configPath), newInspectCmd(&configPath))
	return root
}
