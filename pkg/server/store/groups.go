package store

import (
	"context"

	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// GroupInput holds the mutable fields of a group.
type GroupInput struct {
	Name        string
	Owner       string
	Description *string
}

// GroupsStore abstracts group storage operations
type GroupsStore interface {
	ListGroups(ctx context.Context) ([]model.Group, error)
	CreateGroup(ctx context.Context, in GroupInput) (*model.Group, error)
	UpdateGroup(ctx context.Context, id string, in GroupInput) (*model.Group, error)
	DeleteGroup(ctx context.Context, id string) error
}
