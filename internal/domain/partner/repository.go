package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockflow/backend/internal/domain/shared"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByIDForUpdate finds a supplier by ID and takes a row lock.
	// The account updater uses it; the supplier row is always acquired
	// last, after the order and product rows.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindByCode finds a supplier by its code
	FindByCode(ctx context.Context, code string) (*Supplier, error)

	// FindAll finds suppliers with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, supplier *Supplier) error

	// Delete deletes a supplier (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts suppliers with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a supplier code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
