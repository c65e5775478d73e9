package inventory

import (
	"context"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
)

// PosterRepositories provides access to the repositories the stock poster
// needs within one transaction. All repositories share the same underlying
// database transaction.
type PosterRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// LevelRepo returns the stock level repository scoped to the current transaction
	LevelRepo() inventory.StockLevelRepository
}

// TransactionScope runs stock operations inside a database transaction.
// If the function returns an error, the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos PosterRepositories) error) error
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	movementRepo inventory.StockMovementRepository
	levelRepo    inventory.StockLevelRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	movementRepo inventory.StockMovementRepository,
	levelRepo inventory.StockLevelRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		levelRepo:    levelRepo,
	}
}

// Execute runs fn against the wrapped repositories without transaction semantics
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos PosterRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the wrapped product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// MovementRepo returns the wrapped movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// LevelRepo returns the wrapped stock level repository
func (s *NoOpTransactionScope) LevelRepo() inventory.StockLevelRepository {
	return s.levelRepo
}
