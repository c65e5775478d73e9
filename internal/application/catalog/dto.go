package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflow/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description" binding:"max=2000"`
	Unit         string          `json:"unit" binding:"max=20"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MinimumStock int             `json:"minimum_stock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" binding:"omitempty,max=2000"`
	Unit         *string          `json:"unit" binding:"omitempty,max=20"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	MinimumStock *int             `json:"minimum_stock" binding:"omitempty,min=0"`
	Active       *bool            `json:"active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Unit            string          `json:"unit"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	CurrentStock    int             `json:"current_stock"`
	MinimumStock    int             `json:"minimum_stock"`
	LowStock        bool            `json:"low_stock"`
	Status          string          `json:"status"`
	LastStockUpdate *time.Time      `json:"last_stock_update,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToProductResponse converts a domain product to its response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Description:     product.Description,
		Unit:            product.Unit,
		CostPrice:       product.CostPrice,
		SellingPrice:    product.SellingPrice,
		CurrentStock:    product.CurrentStock,
		MinimumStock:    product.MinimumStock,
		LowStock:        product.IsLowStock(),
		Status:          string(product.Status),
		LastStockUpdate: product.LastStockUpdate,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
		Version:         product.Version,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
