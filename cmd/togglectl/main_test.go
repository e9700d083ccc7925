package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/config"
	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/toggler/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/toggler/pkg/server/store/gorm/gormtest"
)

func newAPI(t *testing.T) string {
	t.Helper()
	srv := server.NewServer(
		config.Default(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		gormstore.NewStores(gormtest.NewDB(t)),
	)
	endpoints.RegisterAll(srv)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts.URL
}

// run executes a freshly built command tree and returns its stdout.
func run(t *testing.T, cmd *cobra.Command, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.Bytes()
}

func TestMigrationsURL(t *testing.T) {
	assert.Equal(t, "", migrationsURL(""))
	assert.Equal(t,
		"postgres://localhost/toggler?x-migrations-table=toggler_schema_migrations",
		migrationsURL("postgres://localhost/toggler"))
	assert.Equal(t,
		"postgres://localhost/toggler?sslmode=disable&x-migrations-table=toggler_schema_migrations",
		migrationsURL("postgres://localhost/toggler?sslmode=disable"))
}

func TestWaitForServer(t *testing.T) {
	apiURL := newAPI(t)
	require.NoError(t, waitForServer(context.Background(), apiURL, 3, 5*time.Second))

	err := waitForServer(context.Background(), "http://127.0.0.1:1", 2, 5*time.Second)
	assert.ErrorContains(t, err, "not ready after 2 attempts")
}

func TestSelfURL(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "http://127.0.0.1:3000", selfURL(cfg))

	cfg.BindAddress = "::"
	cfg.Port = 8080
	assert.Equal(t, "http://127.0.0.1:8080", selfURL(cfg))

	cfg.BindAddress = "10.0.0.5"
	assert.Equal(t, "http://10.0.0.5:8080", selfURL(cfg))
}

func TestConfigurationCommands(t *testing.T) {
	cfg := config.Default()

	var text bytes.Buffer
	require.NoError(t, showConfiguration(&text, cfg, "text"))
	assert.Contains(t, text.String(), "bind_address")

	var js bytes.Buffer
	require.NoError(t, showConfiguration(&js, cfg, "json"))
	assert.True(t, json.Valid(js.Bytes()))

	assert.Error(t, showConfiguration(io.Discard, cfg, "xml"))

	var out bytes.Buffer
	require.NoError(t, checkConfiguration(&out, cfg, "postgres://localhost/toggler"))
	assert.Contains(t, out.String(), "Configuration is valid.")
	assert.ErrorContains(t, checkConfiguration(io.Discard, cfg, ""), "DATABASE_URL")

	cfg.LogLevel = "loud"
	assert.ErrorContains(t, checkConfiguration(io.Discard, cfg, "postgres://localhost/toggler"), "validation failed")
}

func TestFeatureCommands(t *testing.T) {
	apiURL := newAPI(t)

	var created model.Feature
	out := run(t, newEntityCommand(featureSpec), "create", "--api-url", apiURL,
		"--name", "dark-mode", "--type", "boolean", "--owner", "team-x", "--description", "New palette")
	require.NoError(t, json.Unmarshal(out, &created))
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Enabled)

	var updated model.Feature
	out = run(t, newEntityCommand(featureSpec), "update", created.ID, "--api-url", apiURL, "--enabled", "--owner", "team-y")
	require.NoError(t, json.Unmarshal(out, &updated))
	assert.Equal(t, "dark-mode", updated.Name, "omitted flags keep the stored value")
	assert.Equal(t, "team-y", updated.Owner)
	assert.True(t, updated.Enabled)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "New palette", *updated.Description)

	var listed []model.Feature
	out = run(t, newEntityCommand(featureSpec), "list", "--api-url", apiURL)
	require.NoError(t, json.Unmarshal(out, &listed))
	require.Len(t, listed, 1)

	out = run(t, newEntityCommand(featureSpec), "delete", created.ID, "--api-url", apiURL)
	assert.JSONEq(t, `{"success":true}`, string(out))

	features, err := client.New(apiURL).ListFeatures(context.Background())
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestEntityCommands(t *testing.T) {
	apiURL := newAPI(t)
	ctx := context.Background()
	c := client.New(apiURL)

	run(t, newEntityCommand(productSpec), "create", "--api-url", apiURL, "--name", "web", "--owner", "team-web")
	run(t, newEntityCommand(environmentSpec), "create", "--api-url", apiURL, "--name", "production")
	run(t, newEntityCommand(groupSpec), "create", "--api-url", apiURL, "--name", "beta-testers", "--owner", "growth")

	products, err := c.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	environments, err := c.ListEnvironments(ctx)
	require.NoError(t, err)
	require.Len(t, environments, 1)
	groups, err := c.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	var group model.Group
	out := run(t, newEntityCommand(groupSpec), "update", groups[0].ID, "--api-url", apiURL, "--description", "Early adopters")
	require.NoError(t, json.Unmarshal(out, &group))
	assert.Equal(t, "growth", group.Owner)
	require.NotNil(t, group.Description)
	assert.Equal(t, "Early adopters", *group.Description)
}

func TestToggleCommands(t *testing.T) {
	apiURL := newAPI(t)
	ctx := context.Background()
	c := client.New(apiURL)

	feature, err := c.CreateFeature(ctx, client.FeatureInput{Name: "dark-mode", Type: "boolean", Owner: "team-x"})
	require.NoError(t, err)
	group, err := c.CreateGroup(ctx, client.GroupInput{Name: "beta-testers", Owner: "growth"})
	require.NoError(t, err)
	product, err := c.CreateProduct(ctx, client.ProductInput{Name: "web", Owner: "team-web"})
	require.NoError(t, err)
	staging, err := c.CreateEnvironment(ctx, client.EnvironmentInput{Name: "staging"})
	require.NoError(t, err)
	production, err := c.CreateEnvironment(ctx, client.EnvironmentInput{Name: "production"})
	require.NoError(t, err)

	keyArgs := []string{
		"--api-url", apiURL,
		"--feature-id", feature.ID,
		"--group-id", group.ID,
		"--product-id", product.ID,
		"--environment-id", staging.ID,
	}

	var created model.Toggle
	out := run(t, newTogglesCommand(), append([]string{"create"}, keyArgs...)...)
	require.NoError(t, json.Unmarshal(out, &created))
	assert.Equal(t, staging.ID, created.EnvironmentID)

	var listed []model.Toggle
	out = run(t, newTogglesCommand(), "list", "--api-url", apiURL, "--feature-id", feature.ID)
	require.NoError(t, json.Unmarshal(out, &listed))
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Group)
	assert.Equal(t, "beta-testers", listed[0].Group.Name)

	var replaced model.Toggle
	out = run(t, newTogglesCommand(), "replace", "--api-url", apiURL,
		"--old-feature-id", feature.ID,
		"--old-group-id", group.ID,
		"--old-product-id", product.ID,
		"--old-environment-id", staging.ID,
		"--environment-id", production.ID,
	)
	require.NoError(t, json.Unmarshal(out, &replaced))
	assert.Equal(t, production.ID, replaced.EnvironmentID)
	assert.Equal(t, group.ID, replaced.GroupID)

	moved := append([]string{"delete"}, keyArgs...)
	moved[len(moved)-1] = production.ID
	out = run(t, newTogglesCommand(), moved...)
	assert.JSONEq(t, `{"success":true}`, string(out))

	toggles, err := c.ListToggles(ctx, client.ToggleFilter{})
	require.NoError(t, err)
	assert.Empty(t, toggles)
}

const testCatalog = `
features:
  - {name: dark-mode, type: boolean, owner: team-x}
products:
  - {name: web, owner: team-web}
environments:
  - {name: production}
groups:
  - {name: beta-testers, owner: growth}
toggles:
  - {feature: dark-mode, group: beta-testers, product: web, environment: production}
`

func TestApplyCatalogFile(t *testing.T) {
	db := gormtest.NewDB(t)
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	result, err := applyCatalogFile(context.Background(), db, path, true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.For(model.KindToggle).Created)

	result, err = applyCatalogFile(context.Background(), db, path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.For(model.KindFeature).Created)

	result, err = applyCatalogFile(context.Background(), db, path, false)
	require.NoError(t, err)
	assert.False(t, result.Changed())

	_, err = applyCatalogFile(context.Background(), db, filepath.Join(t.TempDir(), "missing.yml"), false)
	assert.ErrorContains(t, err, "failed to open catalog file")
}

func TestWatchCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	applied := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchCatalog(ctx, path, func() error {
			applied <- struct{}{}
			return nil
		})
	}()

	select {
	case <-applied:
	case <-time.After(5 * time.Second):
		t.Fatal("catalog was not applied on start")
	}

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(testCatalog+"\n"), 0o644))
	select {
	case <-applied:
	case <-time.After(5 * time.Second):
		t.Fatal("catalog was not reapplied after a write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
