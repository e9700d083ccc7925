package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// Ensure ProductsStore implements store.ProductsStore
var _ store.ProductsStore = (*ProductsStore)(nil)

// ProductsStore implements store.ProductsStore using GORM
type ProductsStore struct {
	db *gorm.DB
}

// NewProductsStore creates a new ProductsStore
func NewProductsStore(db *gorm.DB) *ProductsStore {
	return &ProductsStore{db: db}
}

func (s *ProductsStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0)
	if err := s.db.WithContext(ctx).Order("create_ts desc").Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductsStore) CreateProduct(ctx context.Context, in store.ProductInput) (*model.Product, error) {
	product := model.Product{
		ID:          newID(),
		Name:        in.Name,
		Owner:       in.Owner,
		Description: description(in.Description),
		CreatedAt:   now(),
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductsStore) UpdateProduct(ctx context.Context, id string, in store.ProductInput) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, model.KindProduct, id, &product); err != nil {
			return err
		}

		product.Name = in.Name
		product.Owner = in.Owner
		if in.Description != nil {
			product.Description = description(in.Description)
		}

		return tx.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":        product.Name,
			"owner":       product.Owner,
			"description": product.Description,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductsStore) DeleteProduct(ctx context.Context, id string) error {
	return deleteEntity(s.db.WithContext(ctx), model.KindProduct, id, &model.Product{})
}
