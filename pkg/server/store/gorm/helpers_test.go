package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
	"github.com/doodlesbykumbi/toggler/pkg/server/store/gorm/gormtest"
)

func newTestDB(t *testing.T) *gorm.DB {
	return gormtest.NewDB(t)
}

// useClock makes now() return strictly increasing times one second apart.
func useClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	prev := now
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	t.Cleanup(func() { now = prev })
}

// MockDB wraps a sqlmock connection behind the postgres dialector.
type MockDB struct {
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

func newMockDB(t *testing.T) *MockDB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		},
	)
	require.NoError(t, err)

	return &MockDB{Mock: mock, GormDB: gormDB}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// fixture holds one row of each entity kind plus spares used by the
// toggle tests.
type fixture struct {
	features     *FeaturesStore
	products     *ProductsStore
	environments *EnvironmentsStore
	groups       *GroupsStore
	toggles      *TogglesStore

	f1, f2 *model.Feature
	g1, g2 *model.Group
	p1     *model.Product
	e1     *model.Environment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	useClock(t)
	db := newTestDB(t)
	ctx := context.Background()

	fx := &fixture{
		features:     NewFeaturesStore(db),
		products:     NewProductsStore(db),
		environments: NewEnvironmentsStore(db),
		groups:       NewGroupsStore(db),
		toggles:      NewTogglesStore(db),
	}

	var err error
	fx.f1, err = fx.features.CreateFeature(ctx, store.FeatureInput{Name: "dark-mode", Type: "boolean", Owner: "team-x"})
	require.NoError(t, err)
	fx.f2, err = fx.features.CreateFeature(ctx, store.FeatureInput{Name: "new-checkout", Type: "boolean", Owner: "team-y"})
	require.NoError(t, err)
	fx.g1, err = fx.groups.CreateGroup(ctx, store.GroupInput{Name: "beta-testers", Owner: "team-x"})
	require.NoError(t, err)
	fx.g2, err = fx.groups.CreateGroup(ctx, store.GroupInput{Name: "enterprise", Owner: "sales"})
	require.NoError(t, err)
	fx.p1, err = fx.products.CreateProduct(ctx, store.ProductInput{Name: "web", Owner: "team-x"})
	require.NoError(t, err)
	fx.e1, err = fx.environments.CreateEnvironment(ctx, store.EnvironmentInput{Name: "production"})
	require.NoError(t, err)
	return fx
}

func (fx *fixture) key(f *model.Feature, g *model.Group) model.ToggleKey {
	return model.ToggleKey{
		FeatureID:     f.ID,
		GroupID:       g.ID,
		ProductID:     fx.p1.ID,
		EnvironmentID: fx.e1.ID,
	}
}
