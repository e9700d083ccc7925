package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/toggler/pkg/db"
)

// catalogWatchCmd represents the catalog watch command
var catalogWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a catalog file and apply it whenever it changes",
	Long: `Apply a catalog file, then watch it and apply it again whenever it is
written or replaced. Failed loads are logged and the watch continues.

Example:
  togglectl catalog watch /etc/toggler/catalog.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		filename := args[0]

		database, err := db.Connect(db.Config{LogLevel: cfg.LogLevel})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		apply := func() error {
			result, err := applyCatalogFile(ctx, database, filename, false)
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stderr, result.Summary())
			return nil
		}
		if err := watchCatalog(ctx, filename, apply); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch catalog: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	catalogCmd.AddCommand(catalogWatchCmd)
}

// watchCatalog calls apply once, then again after every write to filename,
// until ctx is done. The parent directory is watched so editors that
// replace the file are noticed too.
func watchCatalog(ctx context.Context, filename string, apply func() error) error {
	path, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	log := slog.Default().With("catalog", path)
	reload := func() {
		if err := apply(); err != nil {
			log.Error("catalog load failed", "error", err)
			return
		}
		log.Info("catalog loaded")
	}

	reload()
	log.Info("watching for catalog changes")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Info("catalog changed, reloading", "op", event.Op.String())
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", err)
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		}
	}
}
