package gorm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

func keys(toggles []model.Toggle) []model.ToggleKey {
	out := make([]model.ToggleKey, 0, len(toggles))
	for _, t := range toggles {
		out = append(out, t.Key())
	}
	return out
}

func TestCreateToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the toggle with its relations", func(t *testing.T) {
		fx := newFixture(t)
		created, err := fx.toggles.CreateToggle(ctx, fx.key(fx.f1, fx.g1))
		require.NoError(t, err)

		assert.Equal(t, fx.key(fx.f1, fx.g1), created.Key())
		assert.False(t, created.CreatedAt.IsZero())
		require.NotNil(t, created.Feature)
		require.NotNil(t, created.Group)
		require.NotNil(t, created.Product)
		require.NotNil(t, created.Environment)
		assert.Equal(t, "dark-mode", created.Feature.Name)
		assert.Equal(t, "beta-testers", created.Group.Name)
		assert.Equal(t, "web", created.Product.Name)
		assert.Equal(t, "production", created.Environment.Name)
	})

	t.Run("duplicate tuple is a conflict", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.toggles.CreateToggle(ctx, fx.key(fx.f1, fx.g1))
		require.NoError(t, err)

		_, err = fx.toggles.CreateToggle(ctx, fx.key(fx.f1, fx.g1))
		assert.ErrorIs(t, err, store.ErrConflict)

		toggles, err := fx.toggles.ListToggles(ctx, store.ToggleFilter{})
		require.NoError(t, err)
		assert.Len(t, toggles, 1)
	})

	t.Run("missing reference is not found", func(t *testing.T) {
		fx := newFixture(t)
		key := fx.key(fx.f1, fx.g1)
		key.EnvironmentID = "nowhere"

		_, err := fx.toggles.CreateToggle(ctx, key)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "environment")

		toggles, err := fx.toggles.ListToggles(ctx, store.ToggleFilter{})
		require.NoError(t, err)
		assert.Empty(t, toggles)
	})
}

func TestListToggles(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	t1 := fx.key(fx.f1, fx.g1)
	t2 := fx.key(fx.f1, fx.g2)
	t3 := fx.key(fx.f2, fx.g2)
	for _, k := range []model.ToggleKey{t1, t2, t3} {
		_, err := fx.toggles.CreateToggle(ctx, k)
		require.NoError(t, err)
	}

	for _, tc := range []struct {
		name   string
		filter store.ToggleFilter
		want   []model.ToggleKey
	}{
		{"no filter returns newest first", store.ToggleFilter{}, []model.ToggleKey{t3, t2, t1}},
		{"by feature", store.ToggleFilter{FeatureID: fx.f1.ID}, []model.ToggleKey{t2, t1}},
		{"by group", store.ToggleFilter{GroupID: fx.g2.ID}, []model.ToggleKey{t3, t2}},
		{"filters are conjunctive", store.ToggleFilter{FeatureID: fx.f1.ID, GroupID: fx.g2.ID}, []model.ToggleKey{t2}},
		{"all four fields", store.ToggleFilter{
			FeatureID: fx.f2.ID, GroupID: fx.g2.ID, ProductID: fx.p1.ID, EnvironmentID: fx.e1.ID,
		}, []model.ToggleKey{t3}},
		{"no match", store.ToggleFilter{FeatureID: fx.f2.ID, GroupID: fx.g1.ID}, []model.ToggleKey{}},
		{"unknown id", store.ToggleFilter{ProductID: "unknown"}, []model.ToggleKey{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			toggles, err := fx.toggles.ListToggles(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, keys(toggles))
			for _, toggle := range toggles {
				assert.NotNil(t, toggle.Feature)
				assert.NotNil(t, toggle.Group)
			}
		})
	}
}

func TestReplaceToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the toggle to the new tuple", func(t *testing.T) {
		fx := newFixture(t)
		oldKey, newKey := fx.key(fx.f1, fx.g1), fx.key(fx.f1, fx.g2)
		_, err := fx.toggles.CreateToggle(ctx, oldKey)
		require.NoError(t, err)

		replaced, err := fx.toggles.ReplaceToggle(ctx, oldKey, newKey)
		require.NoError(t, err)
		assert.Equal(t, newKey, replaced.Key())
		require.NotNil(t, replaced.Group)
		assert.Equal(t, "enterprise", replaced.Group.Name)

		toggles, err := fx.toggles.ListToggles(ctx, store.ToggleFilter{})
		require.NoError(t, err)
		assert.Equal(t, []model.ToggleKey{newKey}, keys(toggles))
	})

	t.Run("existing target is a conflict and keeps the old tuple", func(t *testing.T) {
		fx := newFixture(t)
		oldKey, newKey := fx.key(fx.f1, fx.g1), fx.key(fx.f1, fx.g2)
		for _, k := range []model.ToggleKey{oldKey, newKey} {
			_, err := fx.toggles.CreateToggle(ctx, k)
			require.NoError(t, err)
		}

		_, err := fx.toggles.ReplaceToggle(ctx, oldKey, newKey)
		assert.ErrorIs(t, err, store.ErrConflict)

		toggles, err := fx.toggles.ListToggles(ctx, store.ToggleFilter{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []model.ToggleKey{oldKey, newKey}, keys(toggles))
	})

	t.Run("missing old tuple is not found", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.toggles.ReplaceToggle(ctx, fx.key(fx.f1, fx.g1), fx.key(fx.f1, fx.g2))
		assert.ErrorIs(t, err, store.ErrNotFound)

		toggles, err := fx.toggles.ListToggles(ctx, store.ToggleFilter{})
		require.NoError(t, err)
		assert.Empty(t, toggles)
	})

	t.Run("missing reference in new tuple keeps the old tuple", func(t *testing.T) {
		fx := newFixture(t)
		oldKey := fx.key(fx.f1, fx.g1)
		_, err := fx.toggles.CreateToggle(ctx, oldKey)
		require.NoError(t, err)

		newKey := oldKey
		newKey.GroupID = "nobody"
		_, err = fx.toggles.ReplaceToggle(ctx, oldKey, newKey)
		assert.ErrorIs(t, err, store.ErrNotFound)

		toggles, err := fx.toggles.ListToggles(ctx, store.ToggleFilter{})
		require.NoError(t, err)
		assert.Equal(t, []model.ToggleKey{oldKey}, keys(toggles))
	})

	t.Run("replacing a tuple with itself is a no-op", func(t *testing.T) {
		fx := newFixture(t)
		key := fx.key(fx.f1, fx.g1)
		created, err := fx.toggles.CreateToggle(ctx, key)
		require.NoError(t, err)

		replaced, err := fx.toggles.ReplaceToggle(ctx, key, key)
		require.NoError(t, err)
		assert.Equal(t, key, replaced.Key())
		assert.True(t, created.CreatedAt.Equal(replaced.CreatedAt))
	})
}

func TestDeleteToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only the given tuple", func(t *testing.T) {
		fx := newFixture(t)
		keep, drop := fx.key(fx.f1, fx.g1), fx.key(fx.f2, fx.g1)
		for _, k := range []model.ToggleKey{keep, drop} {
			_, err := fx.toggles.CreateToggle(ctx, k)
			require.NoError(t, err)
		}

		require.NoError(t, fx.toggles.DeleteToggle(ctx, drop))

		toggles, err := fx.toggles.ListToggles(ctx, store.ToggleFilter{})
		require.NoError(t, err)
		assert.Equal(t, []model.ToggleKey{keep}, keys(toggles))
	})

	t.Run("missing tuple is not found", func(t *testing.T) {
		fx := newFixture(t)
		assert.ErrorIs(t, fx.toggles.DeleteToggle(ctx, fx.key(fx.f1, fx.g1)), store.ErrNotFound)
	})

	t.Run("entity can be deleted once its toggles are gone", func(t *testing.T) {
		fx := newFixture(t)
		key := fx.key(fx.f1, fx.g1)
		_, err := fx.toggles.CreateToggle(ctx, key)
		require.NoError(t, err)
		require.ErrorIs(t, fx.features.DeleteFeature(ctx, fx.f1.ID), store.ErrConflict)

		require.NoError(t, fx.toggles.DeleteToggle(ctx, key))
		assert.NoError(t, fx.features.DeleteFeature(ctx, fx.f1.ID))
	})
}
