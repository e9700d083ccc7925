package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/toggler/pkg/config"
	"github.com/doodlesbykumbi/toggler/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "togglectl",
	Short: "Administer feature toggles",
	Long: `togglectl runs the toggle administration server and manages features,
products, environments, groups and toggles from the command line.`,
	SilenceUsage: true,
}

// loadConfig loads the layered configuration and installs the default
// logger. Failing to load it is fatal for every command.
func loadConfig() *config.TogglerConfig {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Debug("configuration loaded", "file", cfg.ConfigFilePath())
	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
