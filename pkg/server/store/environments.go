package store

import (
	"context"

	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// EnvironmentInput holds the mutable fields of an environment.
type EnvironmentInput struct {
	Name        string
	Description *string
}

// EnvironmentsStore abstracts environment storage operations
type EnvironmentsStore interface {
	ListEnvironments(ctx context.Context) ([]model.Environment, error)
	CreateEnvironment(ctx context.Context, in EnvironmentInput) (*model.Environment, error)
	UpdateEnvironment(ctx context.Context, id string, in EnvironmentInput) (*model.Environment, error)
	DeleteEnvironment(ctx context.Context, id string) error
}
