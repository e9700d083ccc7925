package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// Ensure TogglesStore implements store.TogglesStore
var _ store.TogglesStore = (*TogglesStore)(nil)

// TogglesStore implements store.TogglesStore using GORM
type TogglesStore struct {
	db *gorm.DB
}

// NewTogglesStore creates a new TogglesStore
func NewTogglesStore(db *gorm.DB) *TogglesStore {
	return &TogglesStore{db: db}
}

// withRelations joins the referenced rows onto each toggle.
func withRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Feature").Preload("Group").Preload("Product").Preload("Environment")
}

func keyConditions(key model.ToggleKey) map[string]interface{} {
	return map[string]interface{}{
		"feature_id":     key.FeatureID,
		"group_id":       key.GroupID,
		"product_id":     key.ProductID,
		"environment_id": key.EnvironmentID,
	}
}

func toggleNotFound(key model.ToggleKey) error {
	return fmt.Errorf("%w: toggle (%s)", store.ErrNotFound, key)
}

func toggleConflict(key model.ToggleKey) error {
	return fmt.Errorf("%w: toggle (%s) already exists", store.ErrConflict, key)
}

// ListToggles returns toggles matching every non-empty filter field.
func (s *TogglesStore) ListToggles(ctx context.Context, filter store.ToggleFilter) ([]model.Toggle, error) {
	q := withRelations(s.db.WithContext(ctx))
	if filter.FeatureID != "" {
		q = q.Where("feature_id = ?", filter.FeatureID)
	}
	if filter.GroupID != "" {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.EnvironmentID != "" {
		q = q.Where("environment_id = ?", filter.EnvironmentID)
	}

	toggles := make([]model.Toggle, 0)
	err := q.Order("create_ts desc").
		Order("feature_id").Order("group_id").Order("product_id").Order("environment_id").
		Find(&toggles).Error
	if err != nil {
		return nil, err
	}
	return toggles, nil
}

// CreateToggle inserts the toggle after checking its references.
func (s *TogglesStore) CreateToggle(ctx context.Context, key model.ToggleKey) (*model.Toggle, error) {
	var toggle model.Toggle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, key); err != nil {
			return err
		}
		exists, err := toggleExists(tx, key)
		if err != nil {
			return err
		}
		if exists {
			return toggleConflict(key)
		}
		if err := insertToggle(tx, key); err != nil {
			return err
		}
		return loadToggle(tx, key, &toggle)
	})
	if err != nil {
		return nil, err
	}
	return &toggle, nil
}

// ReplaceToggle deletes the old tuple and inserts the new one in a single
// transaction. Every precondition is checked before the delete so a failure
// never leaves both tuples absent.
func (s *TogglesStore) ReplaceToggle(ctx context.Context, oldKey, newKey model.ToggleKey) (*model.Toggle, error) {
	var toggle model.Toggle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := toggleExists(tx, oldKey)
		if err != nil {
			return err
		}
		if !exists {
			return toggleNotFound(oldKey)
		}
		if oldKey == newKey {
			return loadToggle(tx, oldKey, &toggle)
		}

		if err := checkReferences(tx, newKey); err != nil {
			return err
		}
		exists, err = toggleExists(tx, newKey)
		if err != nil {
			return err
		}
		if exists {
			return toggleConflict(newKey)
		}

		result := tx.Where(keyConditions(oldKey)).Delete(&model.Toggle{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return toggleNotFound(oldKey)
		}
		if err := insertToggle(tx, newKey); err != nil {
			return err
		}
		return loadToggle(tx, newKey, &toggle)
	})
	if err != nil {
		return nil, err
	}
	return &toggle, nil
}

// DeleteToggle removes the toggle identified by key.
func (s *TogglesStore) DeleteToggle(ctx context.Context, key model.ToggleKey) error {
	result := s.db.WithContext(ctx).Where(keyConditions(key)).Delete(&model.Toggle{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return toggleNotFound(key)
	}
	return nil
}

func toggleExists(tx *gorm.DB, key model.ToggleKey) (bool, error) {
	var count int64
	if err := tx.Model(&model.Toggle{}).Where(keyConditions(key)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// checkReferences verifies that each foreign key of the tuple points at an
// existing row.
func checkReferences(tx *gorm.DB, key model.ToggleKey) error {
	refs := []struct {
		kind  model.Kind
		id    string
		value interface{}
	}{
		{model.KindFeature, key.FeatureID, &model.Feature{}},
		{model.KindGroup, key.GroupID, &model.Group{}},
		{model.KindProduct, key.ProductID, &model.Product{}},
		{model.KindEnvironment, key.EnvironmentID, &model.Environment{}},
	}
	for _, ref := range refs {
		var count int64
		if err := tx.Model(ref.value).Where("id = ?", ref.id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound(ref.kind, ref.id)
		}
	}
	return nil
}

func insertToggle(tx *gorm.DB, key model.ToggleKey) error {
	row := key.Toggle()
	row.CreatedAt = now()

	err := tx.Omit(clause.Associations).Create(&row).Error
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return toggleConflict(key)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: toggle (%s) references a missing row", store.ErrNotFound, key)
	}
	return err
}

func loadToggle(tx *gorm.DB, key model.ToggleKey, dest *model.Toggle) error {
	err := withRelations(tx).Where(keyConditions(key)).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return toggleNotFound(key)
	}
	return err
}
