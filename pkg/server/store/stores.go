package store

import "context"

// Stores groups one implementation of every repository.
type Stores struct {
	Features     FeaturesStore
	Products     ProductsStore
	Environments EnvironmentsStore
	Groups       GroupsStore
	Toggles      TogglesStore
	Health       HealthStore
}

// Transactor runs fn against stores bound to a single transaction. The
// transaction is rolled back when fn returns an error.
type Transactor interface {
	Transaction(ctx context.Context, fn func(Stores) error) error
}
