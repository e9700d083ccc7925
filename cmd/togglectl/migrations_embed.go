//go:build embed_migrations

package main

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/doodlesbykumbi/toggler/db"
)

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	migrations, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations: %w", err)
	}

	d, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	slog.Info("using migrations", "source", "embedded")
	return migrate.NewWithSourceInstance("iofs", d, dbURL)
}
