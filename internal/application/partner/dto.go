package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflow/backend/internal/domain/partner"
)

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code         string `json:"code" binding:"required,min=1,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	Phone        string `json:"phone" binding:"max=50"`
	Email        string `json:"email" binding:"omitempty,email,max=100"`
	Address      string `json:"address" binding:"max=500"`
	PaymentTerms string `json:"payment_terms" binding:"omitempty,oneof=cash net_15 net_30 net_45 net_60"`
	Notes        string `json:"notes" binding:"max=2000"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Email        *string `json:"email" binding:"omitempty,email,max=100"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	PaymentTerms *string `json:"payment_terms" binding:"omitempty,oneof=cash net_15 net_30 net_45 net_60"`
	Notes        *string `json:"notes" binding:"omitempty,max=2000"`
	Active       *bool   `json:"active"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	ContactName         string          `json:"contact_name,omitempty"`
	Phone               string          `json:"phone,omitempty"`
	Email               string          `json:"email,omitempty"`
	Address             string          `json:"address,omitempty"`
	PaymentTerms        string          `json:"payment_terms"`
	Status              string          `json:"status"`
	TotalOrders         int             `json:"total_orders"`
	TotalPurchaseAmount decimal.Decimal `json:"total_purchase_amount"`
	CurrentBalance      decimal.Decimal `json:"current_balance"`
	LastOrderDate       *time.Time      `json:"last_order_date,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// ToSupplierResponse converts a domain supplier to its response DTO
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                  supplier.ID,
		Code:                supplier.Code,
		Name:                supplier.Name,
		ContactName:         supplier.ContactName,
		Phone:               supplier.Phone,
		Email:               supplier.Email,
		Address:             supplier.Address,
		PaymentTerms:        supplier.PaymentTerms,
		Status:              string(supplier.Status),
		TotalOrders:         supplier.TotalOrders,
		TotalPurchaseAmount: supplier.TotalPurchaseAmount,
		CurrentBalance:      supplier.CurrentBalance,
		LastOrderDate:       supplier.LastOrderDate,
		Notes:               supplier.Notes,
		CreatedAt:           supplier.CreatedAt,
		UpdatedAt:           supplier.UpdatedAt,
		Version:             supplier.Version,
	}
}

// ToSupplierResponses converts a slice of domain suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
