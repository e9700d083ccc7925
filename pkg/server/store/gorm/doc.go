// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// This package contains concrete implementations that use GORM for database
// operations. The interfaces they implement are defined in pkg/server/store.
// Open the *gorm.DB with TranslateError enabled so uniqueness violations
// surface as store.ErrConflict.
package gorm
