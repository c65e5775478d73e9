package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockflow/backend/internal/domain/shared"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "in"
	MovementTypeOut        MovementType = "out"
	MovementTypeTransfer   MovementType = "transfer"
	MovementTypeAdjustment MovementType = "adjustment"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeTransfer, MovementTypeAdjustment:
		return true
	}
	return false
}

// MovementReason represents the business reason for a stock movement
type MovementReason string

const (
	MovementReasonPurchase      MovementReason = "purchase"
	MovementReasonSale          MovementReason = "sale"
	MovementReasonReturn        MovementReason = "return"
	MovementReasonDamage        MovementReason = "damage"
	MovementReasonLoss          MovementReason = "loss"
	MovementReasonTheft         MovementReason = "theft"
	MovementReasonTransfer      MovementReason = "transfer"
	MovementReasonAdjustment    MovementReason = "adjustment"
	MovementReasonOpeningStock  MovementReason = "opening_stock"
	MovementReasonManufacturing MovementReason = "manufacturing"
)

// String returns the string representation of MovementReason
func (r MovementReason) String() string {
	return string(r)
}

// IsValid returns true if the movement reason is valid
func (r MovementReason) IsValid() bool {
	switch r {
	case MovementReasonPurchase,
		MovementReasonSale,
		MovementReasonReturn,
		MovementReasonDamage,
		MovementReasonLoss,
		MovementReasonTheft,
		MovementReasonTransfer,
		MovementReasonAdjustment,
		MovementReasonOpeningStock,
		MovementReasonManufacturing:
		return true
	}
	return false
}

// FloorsAtZero reports whether an out-type movement with this reason may
// clamp the stock at zero instead of failing. Write-off style reasons record
// reality; the recorded quantity is the decrement actually applied.
func (r MovementReason) FloorsAtZero() bool {
	switch r {
	case MovementReasonAdjustment, MovementReasonLoss, MovementReasonDamage, MovementReasonTheft:
		return true
	}
	return false
}

// ReferenceType values for movements linked to source documents
const (
	ReferenceTypePurchase = "purchase"
	ReferenceTypeSale     = "sale"
	ReferenceTypeManual   = "manual"
)

// StockMovement is the immutable audit record of one stock change. Rows are
// appended and never updated or deleted; PreviousStock and NewStock snapshot
// the product total around the change.
type StockMovement struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key"`
	ProductID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Type          MovementType   `gorm:"type:varchar(20);not null"`
	Reason        MovementReason `gorm:"type:varchar(20);not null"`
	Quantity      int            `gorm:"not null"` // always positive, direction implied by Type
	PreviousStock int            `gorm:"not null"`
	NewStock      int            `gorm:"not null"`
	ReferenceType string         `gorm:"type:varchar(20);index:idx_stock_movements_reference"`
	ReferenceID   *uuid.UUID     `gorm:"type:uuid;index:idx_stock_movements_reference"`
	ItemID        *uuid.UUID     `gorm:"type:uuid"`
	LocationFrom  string         `gorm:"type:varchar(100)"`
	LocationTo    string         `gorm:"type:varchar(100)"`
	PerformedBy   uuid.UUID      `gorm:"type:uuid"`
	MovementDate  time.Time      `gorm:"not null;index"`
	Notes         string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record. Quantity is the
// positive magnitude of the change; the previous and new snapshots come from
// the stock poster, which is the only writer.
func NewStockMovement(productID uuid.UUID, movementType MovementType, reason MovementReason, quantity, previousStock, newStock int, performedBy uuid.UUID) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type: "+string(movementType))
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_REASON", "Unknown movement reason: "+string(reason))
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if previousStock < 0 || newStock < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock snapshots cannot be negative")
	}

	now := time.Now()
	return &StockMovement{
		ID:            uuid.New(),
		ProductID:     productID,
		Type:          movementType,
		Reason:        reason,
		Quantity:      quantity,
		PreviousStock: previousStock,
		NewStock:      newStock,
		PerformedBy:   performedBy,
		MovementDate:  now,
		CreatedAt:     now,
	}, nil
}

// WithReference attaches the source document of the movement
func (m *StockMovement) WithReference(referenceType string, referenceID uuid.UUID, itemID *uuid.UUID) *StockMovement {
	m.ReferenceType = referenceType
	m.ReferenceID = &referenceID
	m.ItemID = itemID
	return m
}

// WithLocations attaches the from/to locations of the movement
func (m *StockMovement) WithLocations(from, to string) *StockMovement {
	m.LocationFrom = from
	m.LocationTo = to
	return m
}

// WithNotes attaches free-text notes
func (m *StockMovement) WithNotes(notes string) *StockMovement {
	m.Notes = notes
	return m
}

// SignedDelta returns the change applied to the product total by this
// movement: positive for in, negative for out, signed for adjustments.
func (m *StockMovement) SignedDelta() int {
	return m.NewStock - m.PreviousStock
}
