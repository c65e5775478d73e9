package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockflow/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate finds a purchase order by ID and takes a row lock.
	// Only meaningful inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindAll finds purchase orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders for a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindPendingReceipt finds orders still open for receiving
	// (approved, ordered or partially_received)
	FindPendingReceipt(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order with its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete deletes a purchase order (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts purchase orders with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts purchase orders per status
	CountByStatus(ctx context.Context) (map[PurchaseOrderStatus]int64, error)

	// ExistsByOrderNumber checks if an order number exists
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// NextOrderNumber allocates the next order number for the month bucket
	// of the given date. The allocation must be atomic with the surrounding
	// transaction so concurrent creates never see the same number; gaps left
	// by rolled-back transactions are acceptable.
	NextOrderNumber(ctx context.Context, date time.Time) (string, error)
}
