package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// NewStores returns every GORM-backed repository sharing db.
func NewStores(db *gorm.DB) store.Stores {
	return store.Stores{
		Features:     NewFeaturesStore(db),
		Products:     NewProductsStore(db),
		Environments: NewEnvironmentsStore(db),
		Groups:       NewGroupsStore(db),
		Toggles:      NewTogglesStore(db),
		Health:       NewHealthStore(db),
	}
}

// Transactor runs store operations inside one database transaction.
type Transactor struct {
	db *gorm.DB
}

var _ store.Transactor = (*Transactor)(nil)

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) Transaction(ctx context.Context, fn func(store.Stores) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}
