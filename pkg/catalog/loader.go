package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// Counts tallies what a load did for one kind.
type Counts struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// LoadResult reports per-kind counts, keyed by kind name.
type LoadResult struct {
	DryRun bool               `json:"dry_run"`
	Kinds  map[string]*Counts `json:"kinds"`
}

func newLoadResult(dryRun bool) *LoadResult {
	r := &LoadResult{DryRun: dryRun, Kinds: make(map[string]*Counts)}
	for _, k := range model.KindValues() {
		r.Kinds[k.String()] = &Counts{}
	}
	return r
}

// For returns the counts for kind.
func (r *LoadResult) For(kind model.Kind) Counts {
	if c, ok := r.Kinds[kind.String()]; ok {
		return *c
	}
	return Counts{}
}

// Changed reports whether anything was (or would be) written.
func (r *LoadResult) Changed() bool {
	for _, c := range r.Kinds {
		if c.Created > 0 || c.Updated > 0 {
			return true
		}
	}
	return false
}

// Summary renders one line per kind in a stable order.
func (r *LoadResult) Summary() string {
	var b strings.Builder
	for _, k := range model.KindValues() {
		c := r.For(k)
		fmt.Fprintf(&b, "%-12s %d created, %d updated, %d unchanged\n", k.Plural()+":", c.Created, c.Updated, c.Unchanged)
	}
	return b.String()
}

// Loader applies catalogs through the store interfaces.
type Loader struct {
	tx     store.Transactor
	log    *slog.Logger
	dryRun bool
}

// NewLoader creates a loader that writes inside one transaction per Load.
func NewLoader(tx store.Transactor) *Loader {
	return &Loader{tx: tx, log: slog.Default()}
}

// WithDryRun sets whether to validate and count without writing.
func (l *Loader) WithDryRun(dryRun bool) *Loader {
	l.dryRun = dryRun
	return l
}

// WithLogger sets the logger used for per-entity progress.
func (l *Loader) WithLogger(log *slog.Logger) *Loader {
	if log != nil {
		l.log = log
	}
	return l
}

// Load makes the store match c. Entities are matched by name: missing ones
// are created and differing ones updated. Toggles are created unless they
// already exist. Nothing is written when validation fails, when a toggle
// names an unknown entity, or in dry-run mode.
func (l *Loader) Load(ctx context.Context, c *Catalog) (*LoadResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := newLoadResult(l.dryRun)
	err := l.tx.Transaction(ctx, func(s store.Stores) error {
		lc, err := newLoadContext(ctx, s, l.log, l.dryRun, result)
		if err != nil {
			return err
		}
		if err := lc.checkToggleRefs(c); err != nil {
			return err
		}
		// Toggles go last so they can use the ids of entities created before them.
		steps := []func() error{
			func() error { return lc.applyFeatures(c.Features) },
			func() error { return lc.applyProducts(c.Products) },
			func() error { return lc.applyEnvironments(c.Environments) },
			func() error { return lc.applyGroups(c.Groups) },
			func() error { return lc.applyToggles(c.Toggles) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// pendingID stands in for ids of entities a dry run would create.
const pendingID = ""

type loadContext struct {
	ctx    context.Context
	stores store.Stores
	log    *slog.Logger
	dryRun bool
	result *LoadResult

	features     map[string]model.Feature
	products     map[string]model.Product
	environments map[string]model.Environment
	groups       map[string]model.Group

	// ids maps kind and name to the stored id, including rows created
	// during this load.
	ids map[model.Kind]map[string]string
}

func newLoadContext(ctx context.Context, s store.Stores, log *slog.Logger, dryRun bool, result *LoadResult) (*loadContext, error) {
	lc := &loadContext{
		ctx:          ctx,
		stores:       s,
		log:          log,
		dryRun:       dryRun,
		result:       result,
		features:     map[string]model.Feature{},
		products:     map[string]model.Product{},
		environments: map[string]model.Environment{},
		groups:       map[string]model.Group{},
		ids:          map[model.Kind]map[string]string{},
	}
	for _, k := range model.KindValues() {
		lc.ids[k] = map[string]string{}
	}

	// Lists are newest first; the newest row wins when names repeat.
	features, err := s.Features.ListFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	for i := len(features) - 1; i >= 0; i-- {
		lc.features[features[i].Name] = features[i]
		lc.ids[model.KindFeature][features[i].Name] = features[i].ID
	}

	products, err := s.Products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for i := len(products) - 1; i >= 0; i-- {
		lc.products[products[i].Name] = products[i]
		lc.ids[model.KindProduct][products[i].Name] = products[i].ID
	}

	environments, err := s.Environments.ListEnvironments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list environments: %w", err)
	}
	for i := len(environments) - 1; i >= 0; i-- {
		lc.environments[environments[i].Name] = environments[i]
		lc.ids[model.KindEnvironment][environments[i].Name] = environments[i].ID
	}

	groups, err := s.Groups.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	for i := len(groups) - 1; i >= 0; i-- {
		lc.groups[groups[i].Name] = groups[i]
		lc.ids[model.KindGroup][groups[i].Name] = groups[i].ID
	}
	return lc, nil
}

func (lc *loadContext) count(kind model.Kind) *Counts {
	return lc.result.Kinds[kind.String()]
}

// checkToggleRefs fails when a toggle names an entity that is neither
// stored nor declared in the catalog.
func (lc *loadContext) checkToggleRefs(c *Catalog) error {
	known := map[model.Kind]map[string]bool{}
	for kind, names := range lc.ids {
		known[kind] = map[string]bool{}
		for name := range names {
			known[kind][name] = true
		}
	}
	for _, f := range c.Features {
		known[model.KindFeature][f.Name] = true
	}
	for _, p := range c.Products {
		known[model.KindProduct][p.Name] = true
	}
	for _, e := range c.Environments {
		known[model.KindEnvironment][e.Name] = true
	}
	for _, g := range c.Groups {
		known[model.KindGroup][g.Name] = true
	}

	var problems []string
	for i, t := range c.Toggles {
		for _, ref := range t.refs() {
			if !known[ref.kind][ref.name] {
				problems = append(problems, fmt.Sprintf("toggles[%d] references unknown %s %q", i, ref.kind, ref.name))
			}
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
