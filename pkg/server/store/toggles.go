package store

import (
	"context"

	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// ToggleFilter narrows ListToggles. Empty fields impose no constraint.
type ToggleFilter struct {
	FeatureID     string
	GroupID       string
	ProductID     string
	EnvironmentID string
}

// TogglesStore abstracts toggle storage operations.
// Returned toggles carry their Feature, Group, Product and Environment.
type TogglesStore interface {
	// ListToggles returns toggles matching every non-empty filter field,
	// newest first.
	ListToggles(ctx context.Context, filter ToggleFilter) ([]model.Toggle, error)

	// CreateToggle returns ErrNotFound if a referenced row is missing and
	// ErrConflict if the tuple already exists.
	CreateToggle(ctx context.Context, key model.ToggleKey) (*model.Toggle, error)

	// ReplaceToggle atomically swaps the toggle identified by oldKey for one
	// identified by newKey. On any error the old toggle is left in place.
	ReplaceToggle(ctx context.Context, oldKey, newKey model.ToggleKey) (*model.Toggle, error)

	// DeleteToggle returns ErrNotFound if the tuple doesn't exist.
	DeleteToggle(ctx context.Context, key model.ToggleKey) error
}
