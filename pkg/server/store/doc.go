// Package store provides storage abstractions for the toggle administration
// server.
//
// This package defines interfaces for database operations, allowing the
// HTTP endpoints to be decoupled from the specific database implementation.
// GORM-backed implementations live in the gorm subpackage.
//
// # Available Stores
//
//   - FeaturesStore, ProductsStore, EnvironmentsStore, GroupsStore: entity CRUD
//   - TogglesStore: the feature/group/product/environment junction
//   - HealthStore: database connectivity checks
//
// # Usage
//
//	features := gorm.NewFeaturesStore(db)
//	feature, err := features.UpdateFeature(ctx, id, input)
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
