package purchasing

import (
	"context"

	invapp "github.com/stockflow/backend/internal/application/inventory"
	"github.com/stockflow/backend/internal/domain/partner"
	"github.com/stockflow/backend/internal/domain/purchasing"
)

// TransactionalRepositories provides access to every repository a purchase
// order operation can touch within one transaction: the order itself, the
// product rows and movement log behind the stock poster, and the supplier
// row for terminal updates. All repositories share the same underlying
// database transaction.
type TransactionalRepositories interface {
	invapp.PosterRepositories

	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() purchasing.PurchaseOrderRepository
	// SupplierRepo returns the supplier repository scoped to the current transaction
	SupplierRepo() partner.SupplierRepository
}

// TransactionScope runs purchase order operations inside a database
// transaction. A receipt is all-or-nothing: order state, stock postings and
// supplier updates commit together or not at all.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
