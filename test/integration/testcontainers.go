package integration

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/config"
	"github.com/doodlesbykumbi/toggler/pkg/db"
	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/toggler/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/toggler/pkg/ui"
)

const serverPort = 18080

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	Container   testcontainers.Container
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client
	Client      *client.Client
	// BinaryPath is set in binary mode; catalog steps then go through the CLI.
	BinaryPath string

	serverProcess *exec.Cmd
	inlineServer  *server.Server
}

// NewTestContext starts PostgreSQL in a container, migrates it and starts a
// toggler server against it.
// Modes:
//   - Binary mode (default): Set TOGGLER_BINARY to the path of the togglectl binary
//   - Inline mode: Set TOGGLER_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("TOGGLER_INLINE") == "1"
	binaryPath := os.Getenv("TOGGLER_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either TOGGLER_BINARY or TOGGLER_INLINE=1 is required.\n\nBinary mode:\n  go build -o togglectl ./cmd/togglectl\n  INTEGRATION_TEST=1 TOGGLER_BINARY=$(pwd)/togglectl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 TOGGLER_INLINE=1 go test -v ./test/integration/...")
	}
	if inlineMode {
		binaryPath = ""
		log.Println("Using inline server mode")
	} else {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("TOGGLER_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("toggler_test"),
		tcpostgres.WithUsername("toggler"),
		tcpostgres.WithPassword("toggler"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(migrationsDir, connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		DB:          database,
		Container:   pgContainer,
		ServerURL:   fmt.Sprintf("http://127.0.0.1:%d", serverPort),
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		BinaryPath:  binaryPath,
	}
	tc.Client = client.New(tc.ServerURL, client.WithHTTPClient(tc.HTTPClient))

	if inlineMode {
		tc.inlineServer = startInlineServer(database, tc.ServerURL)
	} else if tc.serverProcess, err = startBinary(binaryPath, connStr); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start server binary: %w", err)
	}

	waitConfig := client.DefaultWaitConfig()
	waitConfig.MaxElapsedTime = 30 * time.Second
	if err := tc.Client.WaitReady(ctx, waitConfig); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

// startInlineServer starts the server in-process (no binary needed)
func startInlineServer(database *gorm.DB, serverURL string) *server.Server {
	cfg := config.Default()
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = serverPort

	s := server.NewServer(cfg, slog.Default(), gormstore.NewStores(database))
	endpoints.RegisterAll(s)
	ui.Register(s, client.New(serverURL))

	go func() {
		if err := s.Start(); err != nil {
			log.Printf("inline server stopped: %v", err)
		}
	}()
	return s
}

// startBinary starts the togglectl server binary
func startBinary(binaryPath, dbURL string) (*exec.Cmd, error) {
	// Use --no-migrate since we already ran migrations in the test setup
	cmd := exec.Command(binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", fmt.Sprint(serverPort))
	cmd.Env = append(os.Environ(), "DATABASE_URL="+dbURL)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}
	return cmd, nil
}

// Reset removes every row so each scenario starts from an empty catalog.
func (tc *TestContext) Reset() error {
	return tc.DB.Exec(`TRUNCATE active_group_feature_toggles, features, products, environments, groups`).Error
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.inlineServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_ = tc.inlineServer.Shutdown(shutdownCtx)
		cancel()
	}
	if tc.serverProcess != nil && tc.serverProcess.Process != nil {
		_ = tc.serverProcess.Process.Kill()
		_ = tc.serverProcess.Wait()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations applies the up migrations the same way `togglectl db migrate`
// does, into the same version table.
func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL+"&x-migrations-table=toggler_schema_migrations")
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
