package store

import "errors"

// ErrNotFound is returned when a referenced row doesn't exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would violate a uniqueness or
// referential constraint
var ErrConflict = errors.New("conflict")
