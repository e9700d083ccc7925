package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// Ensure FeaturesStore implements store.FeaturesStore
var _ store.FeaturesStore = (*FeaturesStore)(nil)

// FeaturesStore implements store.FeaturesStore using GORM
type FeaturesStore struct {
	db *gorm.DB
}

// NewFeaturesStore creates a new FeaturesStore
func NewFeaturesStore(db *gorm.DB) *FeaturesStore {
	return &FeaturesStore{db: db}
}

// ListFeatures returns all features, newest first.
func (s *FeaturesStore) ListFeatures(ctx context.Context) ([]model.Feature, error) {
	features := make([]model.Feature, 0)
	if err := s.db.WithContext(ctx).Order("create_ts desc").Order("id").Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// CreateFeature persists a new feature. Enabled defaults to false.
func (s *FeaturesStore) CreateFeature(ctx context.Context, in store.FeatureInput) (*model.Feature, error) {
	feature := model.Feature{
		ID:          newID(),
		Type:        in.Type,
		Owner:       in.Owner,
		Name:        in.Name,
		Description: description(in.Description),
		Enabled:     in.Enabled != nil && *in.Enabled,
		CreatedAt:   now(),
	}
	if err := s.db.WithContext(ctx).Create(&feature).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

// UpdateFeature overwrites the feature's fields.
func (s *FeaturesStore) UpdateFeature(ctx context.Context, id string, in store.FeatureInput) (*model.Feature, error) {
	var feature model.Feature
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, model.KindFeature, id, &feature); err != nil {
			return err
		}

		feature.Type = in.Type
		feature.Owner = in.Owner
		feature.Name = in.Name
		if in.Description != nil {
			feature.Description = description(in.Description)
		}
		if in.Enabled != nil {
			feature.Enabled = *in.Enabled
		}

		return tx.Model(&model.Feature{}).Where("id = ?", id).Updates(map[string]interface{}{
			"type":        feature.Type,
			"owner":       feature.Owner,
			"name":        feature.Name,
			"description": feature.Description,
			"enabled":     feature.Enabled,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &feature, nil
}

// DeleteFeature removes a feature that no toggle references.
func (s *FeaturesStore) DeleteFeature(ctx context.Context, id string) error {
	return deleteEntity(s.db.WithContext(ctx), model.KindFeature, id, &model.Feature{})
}
