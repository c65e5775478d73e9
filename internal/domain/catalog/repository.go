package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockflow/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product by ID and takes a row lock.
	// Only meaningful inside a transaction; the stock poster uses it to
	// serialize read-modify-write on CurrentStock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll finds products with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindLowStock finds active products at or below their minimum stock
	FindLowStock(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete deletes a product (soft delete)
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a SKU is already taken
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
