//go:build !embed_migrations

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsPath(t *testing.T) {
	t.Setenv("TOGGLER_MIGRATIONS_PATH", "")
	assert.Equal(t, "db/migrations", migrationsPath())

	t.Setenv("TOGGLER_MIGRATIONS_PATH", "/opt/toggler/migrations")
	assert.Equal(t, "/opt/toggler/migrations", migrationsPath())
}
