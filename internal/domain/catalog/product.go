package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockflow/backend/internal/domain/shared"
)

// ProductStatus represents the availability status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid checks if the product status is valid
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product is the catalog aggregate. CurrentStock is a derived global total:
// it is only ever changed by the stock poster, which records a matching
// movement for every change.
type Product struct {
	shared.BaseAggregateRoot
	SKU             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	Unit            string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock    int             `gorm:"not null;default:0"`
	MinimumStock    int             `gorm:"not null;default:0"`
	Status          ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	LastStockUpdate *time.Time
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with zero stock
func NewProduct(sku, name, unit string, costPrice, sellingPrice decimal.Decimal) (*Product, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if unit == "" {
		unit = "pcs"
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Unit:              unit,
		CostPrice:         costPrice,
		SellingPrice:      sellingPrice,
		CurrentStock:      0,
		MinimumStock:      0,
		Status:            ProductStatusActive,
	}, nil
}

// Update updates the descriptive fields
func (p *Product) Update(name, description, unit string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	p.Name = name
	p.Description = description
	if unit != "" {
		p.Unit = unit
	}
	p.touch()

	return nil
}

// SetPrices updates the cost and selling price
func (p *Product) SetPrices(costPrice, sellingPrice decimal.Decimal) error {
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.CostPrice = costPrice
	p.SellingPrice = sellingPrice
	p.touch()

	return nil
}

// SetMinimumStock updates the low-stock threshold
func (p *Product) SetMinimumStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}

	p.MinimumStock = quantity
	p.touch()

	return nil
}

// Activate marks the product as active
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.touch()
}

// Deactivate marks the product as inactive
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.touch()
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsLowStock returns true when the current stock is at or below the threshold
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}

// IncreaseStock adds quantity to the current stock. Only the stock poster
// calls this; the caller records the movement.
func (p *Product) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock increase must be positive")
	}

	p.CurrentStock += quantity
	p.markStockUpdated()

	return nil
}

// DecreaseStock removes quantity from the current stock. When allowFloor is
// set the stock is clamped at zero and the applied decrement is returned;
// otherwise an attempt to go below zero fails with INSUFFICIENT_STOCK.
func (p *Product) DecreaseStock(quantity int, allowFloor bool) (int, error) {
	if quantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Stock decrease must be positive")
	}
	if quantity > p.CurrentStock {
		if !allowFloor {
			return 0, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Cannot remove %d units of %s, only %d in stock", quantity, p.SKU, p.CurrentStock))
		}
		applied := p.CurrentStock
		p.CurrentStock = 0
		p.markStockUpdated()
		return applied, nil
	}

	p.CurrentStock -= quantity
	p.markStockUpdated()

	return quantity, nil
}

// SetStock sets the current stock to a target value and returns the signed
// delta that was applied. Only the stock poster calls this.
func (p *Product) SetStock(target int) (int, error) {
	if target < 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Stock cannot be negative")
	}

	delta := target - p.CurrentStock
	p.CurrentStock = target
	p.markStockUpdated()

	return delta, nil
}

func (p *Product) markStockUpdated() {
	now := time.Now()
	p.LastStockUpdate = &now
	p.touch()
}

// touch updates the modification timestamp. The version is bumped by the
// repository on save, not here.
func (p *Product) touch() {
	p.UpdatedAt = time.Now()
}
