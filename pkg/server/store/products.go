package store

import (
	"context"

	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// ProductInput holds the mutable fields of a product.
type ProductInput struct {
	Name        string
	Owner       string
	Description *string
}

// ProductsStore abstracts product storage operations
type ProductsStore interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	// UpdateProduct returns ErrNotFound if the product doesn't exist.
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error)
	// DeleteProduct returns ErrNotFound or ErrConflict like DeleteFeature.
	DeleteProduct(ctx context.Context, id string) error
}
