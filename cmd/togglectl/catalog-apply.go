package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/toggler/pkg/catalog"
	"github.com/doodlesbykumbi/toggler/pkg/db"
	gormstore "github.com/doodlesbykumbi/toggler/pkg/server/store/gorm"
)

// catalogApplyCmd represents the catalog apply command
var catalogApplyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Load a catalog file",
	Long: `Load a YAML catalog into the database.

Entities are matched by name: missing ones are created and changed ones
updated. Toggles are created unless they already exist. Applying the same
file twice changes nothing. Use --dry-run to validate and see what would
change without writing.

Example:
  togglectl catalog apply catalog.yml
  togglectl catalog apply --dry-run catalog.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		database, err := db.Connect(db.Config{LogLevel: cfg.LogLevel})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		result, err := applyCatalogFile(cmd.Context(), database, args[0], dryRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply catalog: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprint(os.Stderr, result.Summary())
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	catalogCmd.AddCommand(catalogApplyCmd)
	catalogApplyCmd.Flags().Bool("dry-run", false, "validate and report changes without writing")
}

func applyCatalogFile(ctx context.Context, database *gorm.DB, filename string, dryRun bool) (*catalog.LoadResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := catalog.ParseFile(filename)
	if err != nil {
		return nil, err
	}

	loader := catalog.NewLoader(gormstore.NewTransactor(database)).
		WithDryRun(dryRun).
		WithLogger(slog.Default().With("catalog", filename))
	return loader.Load(ctx, c)
}
