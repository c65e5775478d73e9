package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockflow/backend/internal/domain/shared"
)

// StockLevel tracks the quantity of a product at a single named location.
// The sum over locations equals the product's global CurrentStock; the stock
// poster maintains both in the same transaction when a location is given.
type StockLevel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_levels_product_location"`
	Location  string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_stock_levels_product_location"`
	Quantity  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates an empty stock level for a product at a location
func NewStockLevel(productID uuid.UUID, location string) (*StockLevel, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
	}

	now := time.Now()
	return &StockLevel{
		ID:        uuid.New(),
		ProductID: productID,
		Location:  location,
		Quantity:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply adds a signed delta to the location quantity. When allowFloor is set
// the quantity is clamped at zero; otherwise underflow fails.
func (l *StockLevel) Apply(delta int, allowFloor bool) error {
	next := l.Quantity + delta
	if next < 0 {
		if !allowFloor {
			return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock at location "+l.Location)
		}
		next = 0
	}

	l.Quantity = next
	l.UpdatedAt = time.Now()

	return nil
}
