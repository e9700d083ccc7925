package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/toggler/pkg/model"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

// MockFeaturesStore implements store.FeaturesStore for testing using testify/mock
type MockFeaturesStore struct {
	mock.Mock
}

func (m *MockFeaturesStore) ListFeatures(ctx context.Context) ([]model.Feature, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Feature), args.Error(1)
}

func (m *MockFeaturesStore) CreateFeature(ctx context.Context, in store.FeatureInput) (*model.Feature, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Feature), args.Error(1)
}

func (m *MockFeaturesStore) UpdateFeature(ctx context.Context, id string, in store.FeatureInput) (*model.Feature, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Feature), args.Error(1)
}

func (m *MockFeaturesStore) DeleteFeature(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductsStore implements store.ProductsStore for testing using testify/mock
type MockProductsStore struct {
	mock.Mock
}

func (m *MockProductsStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductsStore) CreateProduct(ctx context.Context, in store.ProductInput) (*model.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductsStore) UpdateProduct(ctx context.Context, id string, in store.ProductInput) (*model.Product, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductsStore) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEnvironmentsStore implements store.EnvironmentsStore for testing using testify/mock
type MockEnvironmentsStore struct {
	mock.Mock
}

func (m *MockEnvironmentsStore) ListEnvironments(ctx context.Context) ([]model.Environment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Environment), args.Error(1)
}

func (m *MockEnvironmentsStore) CreateEnvironment(ctx context.Context, in store.EnvironmentInput) (*model.Environment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Environment), args.Error(1)
}

func (m *MockEnvironmentsStore) UpdateEnvironment(ctx context.Context, id string, in store.EnvironmentInput) (*model.Environment, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Environment), args.Error(1)
}

func (m *MockEnvironmentsStore) DeleteEnvironment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGroupsStore implements store.GroupsStore for testing using testify/mock
type MockGroupsStore struct {
	mock.Mock
}

func (m *MockGroupsStore) ListGroups(ctx context.Context) ([]model.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Group), args.Error(1)
}

func (m *MockGroupsStore) CreateGroup(ctx context.Context, in store.GroupInput) (*model.Group, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupsStore) UpdateGroup(ctx context.Context, id string, in store.GroupInput) (*model.Group, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupsStore) DeleteGroup(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTogglesStore implements store.TogglesStore for testing using testify/mock
type MockTogglesStore struct {
	mock.Mock
}

func (m *MockTogglesStore) ListToggles(ctx context.Context, filter store.ToggleFilter) ([]model.Toggle, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Toggle), args.Error(1)
}

func (m *MockTogglesStore) CreateToggle(ctx context.Context, key model.ToggleKey) (*model.Toggle, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Toggle), args.Error(1)
}

func (m *MockTogglesStore) ReplaceToggle(ctx context.Context, oldKey, newKey model.ToggleKey) (*model.Toggle, error) {
	args := m.Called(ctx, oldKey, newKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Toggle), args.Error(1)
}

func (m *MockTogglesStore) DeleteToggle(ctx context.Context, key model.ToggleKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
