package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// Ensure GroupsStore implements store.GroupsStore
var _ store.GroupsStore = (*GroupsStore)(nil)

// GroupsStore implements store.GroupsStore using GORM
type GroupsStore struct {
	db *gorm.DB
}

// NewGroupsStore creates a new GroupsStore
func NewGroupsStore(db *gorm.DB) *GroupsStore {
	return &GroupsStore{db: db}
}

func (s *GroupsStore) ListGroups(ctx context.Context) ([]model.Group, error) {
	groups := make([]model.Group, 0)
	if err := s.db.WithContext(ctx).Order("create_ts desc").Order("id").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *GroupsStore) CreateGroup(ctx context.Context, in store.GroupInput) (*model.Group, error) {
	group := model.Group{
		ID:          newID(),
		Name:        in.Name,
		Owner:       in.Owner,
		Description: description(in.Description),
		CreatedAt:   now(),
	}
	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *GroupsStore) UpdateGroup(ctx context.Context, id string, in store.GroupInput) (*model.Group, error) {
	var group model.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, model.KindGroup, id, &group); err != nil {
			return err
		}

		group.Name = in.Name
		group.Owner = in.Owner
		if in.Description != nil {
			group.Description = description(in.Description)
		}

		return tx.Model(&model.Group{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":        group.Name,
			"owner":       group.Owner,
			"description": group.Description,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *GroupsStore) DeleteGroup(ctx context.Context, id string) error {
	return deleteEntity(s.db.WithContext(ctx), model.KindGroup, id, &model.Group{})
}
