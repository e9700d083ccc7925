package gorm

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// now is replaced in tests to get strictly increasing creation times.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newID() string {
	return uuid.NewString()
}

func notFound(kind model.Kind, id string) error {
	return fmt.Errorf("%w: %s %q", store.ErrNotFound, kind, id)
}

// description stores empty descriptions as NULL.
func description(d *string) *string {
	if d == nil || *d == "" {
		return nil
	}
	v := *d
	return &v
}

// toggleColumn is the junction column referencing each entity kind.
var toggleColumn = map[model.Kind]string{
	model.KindFeature:     "feature_id",
	model.KindGroup:       "group_id",
	model.KindProduct:     "product_id",
	model.KindEnvironment: "environment_id",
}

// first loads the row with the given id into dest, mapping a missing row
// to store.ErrNotFound.
func first(tx *gorm.DB, kind model.Kind, id string, dest interface{}) error {
	err := tx.Where("id = ?", id).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(kind, id)
	}
	return err
}

// deleteEntity removes the row of the given kind, refusing while toggles
// still reference it.
func deleteEntity(db *gorm.DB, kind model.Kind, id string, value interface{}) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var rows int64
		if err := tx.Model(value).Where("id = ?", id).Count(&rows).Error; err != nil {
			return err
		}
		if rows == 0 {
			return notFound(kind, id)
		}

		var refs int64
		if err := tx.Model(&model.Toggle{}).Where(toggleColumn[kind]+" = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: %s %q is referenced by %d toggle(s)", store.ErrConflict, kind, id, refs)
		}

		err := tx.Where("id = ?", id).Delete(value).Error
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: %s %q is referenced by toggles", store.ErrConflict, kind, id)
		}
		return err
	})
}
