package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
)

// PostMovementRequest describes one stock change for the poster
type PostMovementRequest struct {
	ProductID uuid.UUID
	Type      inventory.MovementType
	Reason    inventory.MovementReason

	// Quantity is the positive magnitude for in, out and transfer moves.
	// Adjustments ignore it and use TargetStock instead.
	Quantity    int
	TargetStock *int

	ReferenceType string
	ReferenceID   *uuid.UUID
	ItemID        *uuid.UUID

	LocationFrom string
	LocationTo   string

	PerformedBy uuid.UUID
	Notes       string
}

// Poster is the single writer of Product.CurrentStock. Every change goes
// through Post, which locks the product row, applies the delta and appends
// the immutable movement record in the caller's transaction.
type Poster struct {
	logger *zap.Logger
}

// NewPoster creates a stock poster
func NewPoster(logger *zap.Logger) *Poster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poster{logger: logger}
}

// Post applies one stock change and records its movement. It must run inside
// the transaction that owns the triggering document (purchase order receipt,
// manual adjustment); repos carries the transaction-scoped repositories.
func (p *Poster) Post(ctx context.Context, repos PosterRepositories, req PostMovementRequest) (*inventory.StockMovement, error) {
	if !req.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type: "+string(req.Type))
	}
	if !req.Reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_REASON", "Unknown movement reason: "+string(req.Reason))
	}

	product, err := repos.ProductRepo().FindByIDForUpdate(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	previous := product.CurrentStock
	var quantity int

	switch req.Type {
	case inventory.MovementTypeIn:
		if err := product.IncreaseStock(req.Quantity); err != nil {
			return nil, err
		}
		quantity = req.Quantity

	case inventory.MovementTypeOut:
		applied, err := product.DecreaseStock(req.Quantity, req.Reason.FloorsAtZero())
		if err != nil {
			return nil, err
		}
		quantity = applied

	case inventory.MovementTypeTransfer:
		if req.LocationFrom == "" || req.LocationTo == "" {
			return nil, shared.NewDomainError("INVALID_LOCATION", "Transfer requires both locations")
		}
		if req.LocationFrom == req.LocationTo {
			return nil, shared.NewDomainError("INVALID_LOCATION", "Transfer locations must differ")
		}
		if req.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
		}
		// the global total does not change, only the location split
		quantity = req.Quantity

	case inventory.MovementTypeAdjustment:
		if req.TargetStock == nil {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment requires a target stock value")
		}
		delta, err := product.SetStock(*req.TargetStock)
		if err != nil {
			return nil, err
		}
		if delta == 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment target equals current stock")
		}
		quantity = delta
		if quantity < 0 {
			quantity = -quantity
		}
	}

	if err := p.applyLocations(ctx, repos, product.ID, req, quantity); err != nil {
		return nil, err
	}

	if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(product.ID, req.Type, req.Reason, quantity, previous, product.CurrentStock, req.PerformedBy)
	if err != nil {
		return nil, err
	}
	if req.ReferenceID != nil {
		movement.WithReference(req.ReferenceType, *req.ReferenceID, req.ItemID)
	}
	movement.WithLocations(req.LocationFrom, req.LocationTo)
	if req.Notes != "" {
		movement.WithNotes(req.Notes)
	}

	if err := repos.MovementRepo().Save(ctx, movement); err != nil {
		return nil, err
	}

	p.logger.Debug("stock posted",
		zap.String("product_id", product.ID.String()),
		zap.String("type", string(req.Type)),
		zap.String("reason", string(req.Reason)),
		zap.Int("quantity", quantity),
		zap.Int("previous_stock", previous),
		zap.Int("new_stock", product.CurrentStock),
	)

	return movement, nil
}

// applyLocations mirrors the change on the per-location rows when locations
// are given. The sum over locations tracks the global total.
func (p *Poster) applyLocations(ctx context.Context, repos PosterRepositories, productID uuid.UUID, req PostMovementRequest, quantity int) error {
	switch req.Type {
	case inventory.MovementTypeIn:
		if req.LocationTo == "" {
			return nil
		}
		return p.applyLevel(ctx, repos, productID, req.LocationTo, quantity, false)

	case inventory.MovementTypeOut:
		if req.LocationFrom == "" {
			return nil
		}
		return p.applyLevel(ctx, repos, productID, req.LocationFrom, -quantity, req.Reason.FloorsAtZero())

	case inventory.MovementTypeTransfer:
		if err := p.applyLevel(ctx, repos, productID, req.LocationFrom, -quantity, false); err != nil {
			return err
		}
		return p.applyLevel(ctx, repos, productID, req.LocationTo, quantity, false)
	}

	// adjustments reset the global scalar; location rows are not touched
	return nil
}

func (p *Poster) applyLevel(ctx context.Context, repos PosterRepositories, productID uuid.UUID, location string, delta int, allowFloor bool) error {
	level, err := repos.LevelRepo().FindByProductAndLocation(ctx, productID, location)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		level, err = inventory.NewStockLevel(productID, location)
		if err != nil {
			return err
		}
	}

	if err := level.Apply(delta, allowFloor); err != nil {
		return err
	}

	return repos.LevelRepo().Save(ctx, level)
}
