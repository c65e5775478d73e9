package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockflow/backend/internal/domain/shared"
)

// StockMovementRepository defines the interface for movement persistence.
// Movements are append-only; there is no update or delete.
type StockMovementRepository interface {
	// FindByID finds a movement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByProduct finds movements for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByReference finds movements linked to a source document
	FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]StockMovement, error)

	// FindAll finds movements with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)

	// Save appends a movement record
	Save(ctx context.Context, movement *StockMovement) error

	// Count counts movements with optional filters
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByReference counts movements linked to a source document
	CountByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) (int64, error)
}

// StockLevelRepository defines the interface for per-location stock
type StockLevelRepository interface {
	// FindByProductAndLocation finds the level row, or ErrNotFound
	FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) (*StockLevel, error)

	// FindByProduct finds all location levels for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockLevel, error)

	// Save creates or updates a level row
	Save(ctx context.Context, level *StockLevel) error
}
