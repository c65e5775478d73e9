package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockflow/backend/internal/domain/inventory"
)

// StockInRequest represents a manual inbound stock posting
type StockInRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	Reason      string    `json:"reason" binding:"required"`
	Location    string    `json:"location"`
	Notes       string    `json:"notes" binding:"max=500"`
	PerformedBy uuid.UUID `json:"-"`
}

// StockOutRequest represents a manual outbound stock posting
type StockOutRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	Reason      string    `json:"reason" binding:"required"`
	Location    string    `json:"location"`
	Notes       string    `json:"notes" binding:"max=500"`
	PerformedBy uuid.UUID `json:"-"`
}

// AdjustStockRequest sets the stock of a product to a target value
type AdjustStockRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	TargetStock int       `json:"target_stock" binding:"min=0"`
	Notes       string    `json:"notes" binding:"max=500"`
	PerformedBy uuid.UUID `json:"-"`
}

// TransferStockRequest moves quantity between two locations
type TransferStockRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	From        string    `json:"from" binding:"required"`
	To          string    `json:"to" binding:"required"`
	Notes       string    `json:"notes" binding:"max=500"`
	PerformedBy uuid.UUID `json:"-"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"product_id"`
	Type          string     `json:"type"`
	Reason        string     `json:"reason"`
	Quantity      int        `json:"quantity"`
	PreviousStock int        `json:"previous_stock"`
	NewStock      int        `json:"new_stock"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	ItemID        *uuid.UUID `json:"item_id,omitempty"`
	LocationFrom  string     `json:"location_from,omitempty"`
	LocationTo    string     `json:"location_to,omitempty"`
	PerformedBy   uuid.UUID  `json:"performed_by"`
	MovementDate  time.Time  `json:"movement_date"`
	Notes         string     `json:"notes,omitempty"`
}

// StockLevelResponse represents per-location stock in API responses
type StockLevelResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Location  string    `json:"location"`
	Quantity  int       `json:"quantity"`
}

// ToMovementResponse converts a domain movement to its response DTO
func ToMovementResponse(movement *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            movement.ID,
		ProductID:     movement.ProductID,
		Type:          movement.Type.String(),
		Reason:        movement.Reason.String(),
		Quantity:      movement.Quantity,
		PreviousStock: movement.PreviousStock,
		NewStock:      movement.NewStock,
		ReferenceType: movement.ReferenceType,
		ReferenceID:   movement.ReferenceID,
		ItemID:        movement.ItemID,
		LocationFrom:  movement.LocationFrom,
		LocationTo:    movement.LocationTo,
		PerformedBy:   movement.PerformedBy,
		MovementDate:  movement.MovementDate,
		Notes:         movement.Notes,
	}
}

// ToMovementResponses converts a slice of domain movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// ToStockLevelResponses converts domain stock levels
func ToStockLevelResponses(levels []inventory.StockLevel) []StockLevelResponse {
	responses := make([]StockLevelResponse, len(levels))
	for i, level := range levels {
		responses[i] = StockLevelResponse{
			ProductID: level.ProductID,
			Location:  level.Location,
			Quantity:  level.Quantity,
		}
	}
	return responses
}
