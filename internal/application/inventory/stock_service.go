package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
)

// StockService exposes the manual stock operations: in, out, adjustment and
// transfer postings, plus movement history. Purchase receipts do not come
// through here; the purchasing service drives the poster inside its own
// transaction.
type StockService struct {
	scope        TransactionScope
	poster       *Poster
	movementRepo inventory.StockMovementRepository
	levelRepo    inventory.StockLevelRepository
	logger       *zap.Logger
}

// NewStockService creates a stock service
func NewStockService(scope TransactionScope, poster *Poster, movementRepo inventory.StockMovementRepository, levelRepo inventory.StockLevelRepository, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		scope:        scope,
		poster:       poster,
		movementRepo: movementRepo,
		levelRepo:    levelRepo,
		logger:       logger,
	}
}

// manualReason validates a caller-supplied reason for manual postings.
// Purchase and sale movements are reserved for their document flows.
func manualReason(raw string) (inventory.MovementReason, error) {
	reason := inventory.MovementReason(raw)
	if !reason.IsValid() {
		return "", shared.NewDomainError("INVALID_MOVEMENT_REASON", "Unknown movement reason: "+raw)
	}
	if reason == inventory.MovementReasonPurchase || reason == inventory.MovementReasonSale {
		return "", shared.NewDomainError("INVALID_MOVEMENT_REASON", "Reason "+raw+" is reserved for document postings")
	}
	return reason, nil
}

// StockIn posts a manual inbound movement (return, opening stock, manufacturing)
func (s *StockService) StockIn(ctx context.Context, req StockInRequest) (*MovementResponse, error) {
	reason, err := manualReason(req.Reason)
	if err != nil {
		return nil, err
	}

	var movement *inventory.StockMovement
	err = s.scope.Execute(ctx, func(repos PosterRepositories) error {
		movement, err = s.poster.Post(ctx, repos, PostMovementRequest{
			ProductID:   req.ProductID,
			Type:        inventory.MovementTypeIn,
			Reason:      reason,
			Quantity:    req.Quantity,
			LocationTo:  req.Location,
			PerformedBy: req.PerformedBy,
			Notes:       req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToMovementResponse(movement)
	return &response, nil
}

// StockOut posts a manual outbound movement. Write-off reasons (damage,
// loss, theft, adjustment) floor the stock at zero; all others fail with
// INSUFFICIENT_STOCK when the quantity exceeds what is available.
func (s *StockService) StockOut(ctx context.Context, req StockOutRequest) (*MovementResponse, error) {
	reason, err := manualReason(req.Reason)
	if err != nil {
		return nil, err
	}

	var movement *inventory.StockMovement
	err = s.scope.Execute(ctx, func(repos PosterRepositories) error {
		movement, err = s.poster.Post(ctx, repos, PostMovementRequest{
			ProductID:    req.ProductID,
			Type:         inventory.MovementTypeOut,
			Reason:       reason,
			Quantity:     req.Quantity,
			LocationFrom: req.Location,
			PerformedBy:  req.PerformedBy,
			Notes:        req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToMovementResponse(movement)
	return &response, nil
}

// AdjustStock sets the product stock to a target value, recording the
// signed delta as an adjustment movement
func (s *StockService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*MovementResponse, error) {
	target := req.TargetStock

	var movement *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos PosterRepositories) error {
		var err error
		movement, err = s.poster.Post(ctx, repos, PostMovementRequest{
			ProductID:   req.ProductID,
			Type:        inventory.MovementTypeAdjustment,
			Reason:      inventory.MovementReasonAdjustment,
			TargetStock: &target,
			PerformedBy: req.PerformedBy,
			Notes:       req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToMovementResponse(movement)
	return &response, nil
}

// TransferStock moves quantity between two locations of the same product.
// The global total is unchanged; one movement links both locations.
func (s *StockService) TransferStock(ctx context.Context, req TransferStockRequest) (*MovementResponse, error) {
	var movement *inventory.StockMovement
	err := s.scope.Execute(ctx, func(repos PosterRepositories) error {
		var err error
		movement, err = s.poster.Post(ctx, repos, PostMovementRequest{
			ProductID:    req.ProductID,
			Type:         inventory.MovementTypeTransfer,
			Reason:       inventory.MovementReasonTransfer,
			Quantity:     req.Quantity,
			LocationFrom: req.From,
			LocationTo:   req.To,
			PerformedBy:  req.PerformedBy,
			Notes:        req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToMovementResponse(movement)
	return &response, nil
}

// ListMovements lists movements with filtering and pagination
func (s *StockService) ListMovements(ctx context.Context, filter shared.Filter) ([]MovementResponse, int64, error) {
	movements, err := s.movementRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// GetMovementsByProduct lists the movement history of one product
func (s *StockService) GetMovementsByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// GetMovementsByReference lists the movements posted for a source document
func (s *StockService) GetMovementsByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]MovementResponse, error) {
	movements, err := s.movementRepo.FindByReference(ctx, referenceType, referenceID)
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// GetStockLevels lists the per-location stock of one product
func (s *StockService) GetStockLevels(ctx context.Context, productID uuid.UUID) ([]StockLevelResponse, error) {
	levels, err := s.levelRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToStockLevelResponses(levels), nil
}
