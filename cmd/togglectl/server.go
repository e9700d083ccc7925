package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/config"
	"github.com/doodlesbykumbi/toggler/pkg/db"
	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/toggler/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/toggler/pkg/ui"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the toggle administration server",
	Long: `Run the toggle administration server.

The server requires the environment variable DATABASE_URL. It serves the
JSON API at / and /api, and the UI pages under /ui unless ui_enabled is
false.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if cmd.Flags().Changed("bind-address") {
			cfg.BindAddress, _ = cmd.Flags().GetString("bind-address")
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		if db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			slog.Info("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		if err := runServer(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	defaults := config.Default()
	serverCmd.Flags().StringP("bind-address", "b", defaults.BindAddress, "server bind address")
	serverCmd.Flags().IntP("port", "p", defaults.Port, "server listen port")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(cfg *config.TogglerConfig) error {
	database, err := db.Connect(db.Config{LogLevel: cfg.LogLevel})
	if err != nil {
		return err
	}

	log := slog.Default()
	s := server.NewServer(cfg, log, gormstore.NewStores(database))
	endpoints.RegisterAll(s)
	if cfg.UI() {
		ui.Register(s, client.New(selfURL(cfg)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

// selfURL is the loopback URL the UI pages use to reach this server's API.
func selfURL(cfg *config.TogglerConfig) string {
	host := cfg.BindAddress
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Port))
}
