package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/squadcov/squadcov/pkg/config"
)

var (
	// Global flags
	debug      bool
	configPath string

	rootCmd = &cobra.Command{
		Use:   "squadcov",
		Short: "Squad-attributed Xcode code coverage reports",
		Long: `squadcov turns raw per-file Xcode coverage data into squad-attributed
coverage reports. Files are matched to owning squads via an ownership CSV
(columns Squad,Filepath; row order is match priority) and aggregated into a
per-squad summary with coverage percentages.

Each run writes its artifacts under ~/.squadcov/<run-id>/ and records totals
in a local run history, so past reports stay inspectable.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (defaults to $XDG_CONFIG_HOME/squadcov/config.json)")
}

// loadConfig resolves the config file location and loads it layered over the
// built-in defaults.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
