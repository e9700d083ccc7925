package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/toggler/pkg/catalog"
	"github.com/doodlesbykumbi/toggler/pkg/model"
	gormstore "github.com/doodlesbykumbi/toggler/pkg/server/store/gorm"
)

type catalogSteps struct {
	*StepsContext
	result *catalog.LoadResult
	err    error
}

// RegisterCatalogSteps registers the catalog load step definitions
func (s *StepsContext) RegisterCatalogSteps(sc *godog.ScenarioContext) {
	c := &catalogSteps{StepsContext: s}

	sc.Step(`^I apply the following catalog:$`, func(doc *godog.DocString) error {
		return c.apply(doc.Content, false)
	})
	sc.Step(`^I dry-run the following catalog:$`, func(doc *godog.DocString) error {
		return c.apply(doc.Content, true)
	})
	sc.Step(`^the catalog load should succeed$`, c.theCatalogLoadShouldSucceed)
	sc.Step(`^the catalog load should fail with "([^"]*)"$`, c.theCatalogLoadShouldFailWith)
	sc.Step(`^the catalog load should report (\d+) (created|updated|unchanged) (features?|products?|environments?|groups?|toggles?)$`, c.theCatalogLoadShouldReport)
	sc.Step(`^the catalog load should report no changes$`, c.theCatalogLoadShouldReportNoChanges)
}

// apply loads content in-process, or through `togglectl catalog apply` in
// binary mode.
func (c *catalogSteps) apply(content string, dryRun bool) error {
	c.result, c.err = nil, nil
	if c.tc.BinaryPath == "" {
		parsed, err := catalog.Parse(strings.NewReader(content))
		if err != nil {
			c.err = err
			return nil
		}
		loader := catalog.NewLoader(gormstore.NewTransactor(c.tc.DB)).WithDryRun(dryRun)
		c.result, c.err = loader.Load(context.Background(), parsed)
		return nil
	}

	dir, err := os.MkdirTemp("", "toggler-catalog")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(dir) }()
	path := filepath.Join(dir, "catalog.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return err
	}

	args := []string{"catalog", "apply", path}
	if dryRun {
		args = append(args, "--dry-run")
	}
	cmd := exec.Command(c.tc.BinaryPath, args...)
	cmd.Env = append(os.Environ(), "DATABASE_URL="+c.tc.DatabaseURL)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.err = fmt.Errorf("%v: %s", err, stderr.String())
		return nil
	}
	var result catalog.LoadResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return fmt.Errorf("failed to decode load result: %w", err)
	}
	c.result = &result
	return nil
}

func (c *catalogSteps) theCatalogLoadShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("catalog load failed: %w", c.err)
	}
	return nil
}

func (c *catalogSteps) theCatalogLoadShouldFailWith(message string) error {
	if c.err == nil {
		return fmt.Errorf("expected catalog load to fail with %q", message)
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, c.err.Error())
	}
	return nil
}

func (c *catalogSteps) theCatalogLoadShouldReport(count int, column, kindName string) error {
	if err := c.theCatalogLoadShouldSucceed(); err != nil {
		return err
	}
	kind, err := model.KindString(strings.TrimSuffix(kindName, "s"))
	if err != nil {
		return err
	}

	counts := c.result.For(kind)
	actual := map[string]int{
		"created":   counts.Created,
		"updated":   counts.Updated,
		"unchanged": counts.Unchanged,
	}[column]
	if actual != count {
		return fmt.Errorf("expected %d %s %s, got %d", count, column, kind.Plural(), actual)
	}
	return nil
}

func (c *catalogSteps) theCatalogLoadShouldReportNoChanges() error {
	if err := c.theCatalogLoadShouldSucceed(); err != nil {
		return err
	}
	if c.result.Changed() {
		return fmt.Errorf("expected no changes, got:\n%s", c.result.Summary())
	}
	return nil
}
