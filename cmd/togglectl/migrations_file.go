//go:build !embed_migrations

package main

import (
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "db/migrations"

// migrationsPath is the migrations directory, overridable with
// TOGGLER_MIGRATIONS_PATH.
func migrationsPath() string {
	if path := os.Getenv("TOGGLER_MIGRATIONS_PATH"); path != "" {
		return path
	}
	return defaultMigrationsPath
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	path := migrationsPath()
	slog.Info("using migrations", "source", "file://"+path)
	return migrate.New("file://"+path, dbURL)
}
