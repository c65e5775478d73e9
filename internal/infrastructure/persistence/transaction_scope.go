package persistence

import (
	"context"

	"gorm.io/gorm"

	invapp "github.com/stockflow/backend/internal/application/inventory"
	poapp "github.com/stockflow/backend/internal/application/purchasing"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/partner"
	"github.com/stockflow/backend/internal/domain/purchasing"
)

// GormStockTransactionScope implements the stock poster's TransactionScope
// using GORM transactions.
type GormStockTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope
func NewGormStockTransactionScope(db *gorm.DB) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(repos invapp.PosterRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormPurchaseTransactionScope implements the purchase order
// TransactionScope using GORM transactions. A receipt runs entirely inside
// one transaction: order state, stock postings and supplier updates commit
// together or not at all.
type GormPurchaseTransactionScope struct {
	db *gorm.DB
}

// NewGormPurchaseTransactionScope creates a new GormPurchaseTransactionScope
func NewGormPurchaseTransactionScope(db *gorm.DB) *GormPurchaseTransactionScope {
	return &GormPurchaseTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormPurchaseTransactionScope) Execute(ctx context.Context, fn func(repos poapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within
// a single transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the purchase order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// LevelRepo returns the stock level repository scoped to the current transaction
func (r *gormTransactionalRepositories) LevelRepo() inventory.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormTransactionalRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// Ensure the scopes implement their application interfaces
var (
	_ invapp.TransactionScope         = (*GormStockTransactionScope)(nil)
	_ poapp.TransactionScope          = (*GormPurchaseTransactionScope)(nil)
	_ poapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ invapp.PosterRepositories       = (*gormTransactionalRepositories)(nil)
)
