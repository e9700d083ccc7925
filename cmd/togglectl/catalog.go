package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage declarative catalogs",
	Long: `Load YAML catalogs of features, products, environments, groups and toggles
into the database.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, "error: Command 'catalog' requires a subcommand (apply, watch)")
		fmt.Fprintln(os.Stderr)
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
