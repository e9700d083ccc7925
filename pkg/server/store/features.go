package store

import (
	"context"

	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// FeatureInput holds the mutable fields of a feature.
// A nil Description or Enabled leaves the stored value unchanged on update.
type FeatureInput struct {
	Type        string
	Owner       string
	Name        string
	Description *string
	Enabled     *bool
}

// FeaturesStore abstracts feature storage operations
type FeaturesStore interface {
	// ListFeatures returns all features, newest first.
	ListFeatures(ctx context.Context) ([]model.Feature, error)

	// CreateFeature assigns an id and creation time and persists the feature.
	CreateFeature(ctx context.Context, in FeatureInput) (*model.Feature, error)

	// UpdateFeature overwrites the feature's fields.
	// Returns ErrNotFound if the feature doesn't exist.
	UpdateFeature(ctx context.Context, id string, in FeatureInput) (*model.Feature, error)

	// DeleteFeature removes a feature.
	// Returns ErrNotFound if the feature doesn't exist and ErrConflict if
	// toggles still reference it.
	DeleteFeature(ctx context.Context, id string) error
}
