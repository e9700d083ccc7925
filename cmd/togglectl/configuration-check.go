package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/toggler/pkg/config"
	"github.com/doodlesbykumbi/toggler/pkg/db"
)

// configurationCheckCmd represents the configuration check command
var configurationCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration",
	Long: `Validate the configuration file and environment overrides, and check that
DATABASE_URL is set. Exits non-zero when the server would refuse to start.

Example:
  togglectl configuration check`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err == nil {
			err = checkConfiguration(os.Stdout, cfg, db.URL())
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration check failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationCheckCmd)
}

func checkConfiguration(w io.Writer, cfg *config.TogglerConfig, databaseURL string) error {
	fmt.Fprintf(w, "Config file: %s\n", cfg.ConfigFilePath())
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	fmt.Fprintln(w, "Configuration is valid.")
	return nil
}
