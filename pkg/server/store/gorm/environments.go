package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// Ensure EnvironmentsStore implements store.EnvironmentsStore
var _ store.EnvironmentsStore = (*EnvironmentsStore)(nil)

// EnvironmentsStore implements store.EnvironmentsStore using GORM
type EnvironmentsStore struct {
	db *gorm.DB
}

// NewEnvironmentsStore creates a new EnvironmentsStore
func NewEnvironmentsStore(db *gorm.DB) *EnvironmentsStore {
	return &EnvironmentsStore{db: db}
}

func (s *EnvironmentsStore) ListEnvironments(ctx context.Context) ([]model.Environment, error) {
	environments := make([]model.Environment, 0)
	if err := s.db.WithContext(ctx).Order("create_ts desc").Order("id").Find(&environments).Error; err != nil {
		return nil, err
	}
	return environments, nil
}

func (s *EnvironmentsStore) CreateEnvironment(ctx context.Context, in store.EnvironmentInput) (*model.Environment, error) {
	environment := model.Environment{
		ID:          newID(),
		Name:        in.Name,
		Description: description(in.Description),
		CreatedAt:   now(),
	}
	if err := s.db.WithContext(ctx).Create(&environment).Error; err != nil {
		return nil, err
	}
	return &environment, nil
}

func (s *EnvironmentsStore) UpdateEnvironment(ctx context.Context, id string, in store.EnvironmentInput) (*model.Environment, error) {
	var environment model.Environment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, model.KindEnvironment, id, &environment); err != nil {
			return err
		}

		environment.Name = in.Name
		if in.Description != nil {
			environment.Description = description(in.Description)
		}

		return tx.Model(&model.Environment{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":        environment.Name,
			"description": environment.Description,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &environment, nil
}

func (s *EnvironmentsStore) DeleteEnvironment(ctx context.Context, id string) error {
	return deleteEntity(s.db.WithContext(ctx), model.KindEnvironment, id, &model.Environment{})
}
