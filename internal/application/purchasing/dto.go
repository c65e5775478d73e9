package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflow/backend/internal/domain/purchasing"
)

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID                      `json:"supplier_id" binding:"required"`
	Status               string                         `json:"status" binding:"omitempty,oneof=draft pending"`
	OrderDate            *time.Time                     `json:"order_date"`
	ExpectedDeliveryDate *time.Time                     `json:"expected_delivery_date"`
	PaymentTerms         string                         `json:"payment_terms" binding:"omitempty,oneof=cash net_15 net_30 net_45 net_60"`
	PaymentMethod        string                         `json:"payment_method" binding:"max=50"`
	ShippingCost         *decimal.Decimal               `json:"shipping_cost"`
	Notes                string                         `json:"notes" binding:"max=2000"`
	Items                []CreatePurchaseOrderItemInput `json:"items" binding:"omitempty,dive"`
	CreatedBy            uuid.UUID                      `json:"-"`
}

// CreatePurchaseOrderItemInput represents an item in the create order request
type CreatePurchaseOrderItemInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal  `json:"unit_price" binding:"required"`
	Discount  *decimal.Decimal `json:"discount"`
	Tax       *decimal.Decimal `json:"tax"`
}

// UpdatePurchaseOrderRequest represents a request to update a purchase order.
// Items may only change while the order is draft or pending; the metadata
// fields stay editable through approved.
type UpdatePurchaseOrderRequest struct {
	Items                *[]CreatePurchaseOrderItemInput `json:"items" binding:"omitempty,dive"`
	ExpectedDeliveryDate *time.Time                      `json:"expected_delivery_date"`
	PaymentTerms         *string                         `json:"payment_terms" binding:"omitempty,oneof=cash net_15 net_30 net_45 net_60"`
	ShippingCost         *decimal.Decimal                `json:"shipping_cost"`
	Notes                *string                         `json:"notes" binding:"omitempty,max=2000"`
}

// ChangeStatusRequest represents a direct status transition request
type ChangeStatusRequest struct {
	Status string    `json:"status" binding:"required"`
	Actor  uuid.UUID `json:"-"`
}

// UpdatePaymentRequest represents a payment status change request
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=unpaid partially_paid paid"`
	PaymentMethod string `json:"payment_method" binding:"max=50"`
}

// ReceiveLineInput represents one line of a receipt request
type ReceiveLineInput struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// ReceiveRequest represents a goods receipt for a purchase order
type ReceiveRequest struct {
	Items []ReceiveLineInput `json:"received_items" binding:"required,min=1,dive"`
	Notes string             `json:"notes" binding:"max=500"`

	// RequestKey is the optional client-supplied idempotency key; a retry
	// carrying the same key is rejected instead of posting stock twice.
	RequestKey string    `json:"-"`
	Actor      uuid.UUID `json:"-"`
}

// PurchaseOrderListFilter represents filter options for purchase order lists
type PurchaseOrderListFilter struct {
	Search         string     `form:"search"`
	SupplierID     *uuid.UUID `form:"supplier_id"`
	Status         string     `form:"status"`
	PendingReceipt bool       `form:"pending_receipt"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderItemResponse represents a purchase order item in API responses
type PurchaseOrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	Unit              string          `json:"unit"`
	Quantity          int             `json:"quantity"`
	ReceivedQuantity  int             `json:"received_quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	Tax               decimal.Decimal `json:"tax"`
	TotalPrice        decimal.Decimal `json:"total_price"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	PurchaseOrderNumber  string                      `json:"purchase_order_number"`
	SupplierID           uuid.UUID                   `json:"supplier_id"`
	Items                []PurchaseOrderItemResponse `json:"items"`
	ItemCount            int                         `json:"item_count"`
	TotalQuantity        int                         `json:"total_quantity"`
	ReceivedQuantity     int                         `json:"received_quantity"`
	Subtotal             decimal.Decimal             `json:"subtotal"`
	TotalDiscount        decimal.Decimal             `json:"total_discount"`
	TotalTax             decimal.Decimal             `json:"total_tax"`
	ShippingCost         decimal.Decimal             `json:"shipping_cost"`
	GrandTotal           decimal.Decimal             `json:"grand_total"`
	Status               string                      `json:"status"`
	PaymentStatus        string                      `json:"payment_status"`
	PaymentMethod        string                      `json:"payment_method,omitempty"`
	PaymentTerms         string                      `json:"payment_terms"`
	OrderDate            time.Time                   `json:"order_date"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	ApprovedAt           *time.Time                  `json:"approved_at,omitempty"`
	ActualDeliveryDate   *time.Time                  `json:"actual_delivery_date,omitempty"`
	CancelledAt          *time.Time                  `json:"cancelled_at,omitempty"`
	CreatedBy            uuid.UUID                   `json:"created_by"`
	ApprovedBy           *uuid.UUID                  `json:"approved_by,omitempty"`
	Notes                string                      `json:"notes,omitempty"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
	Version              int                         `json:"version"`
}

// PurchaseOrderListItemResponse represents a purchase order in list responses
type PurchaseOrderListItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	PurchaseOrderNumber string          `json:"purchase_order_number"`
	SupplierID          uuid.UUID       `json:"supplier_id"`
	ItemCount           int             `json:"item_count"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"payment_status"`
	OrderDate           time.Time       `json:"order_date"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ReceivedLineResponse represents one applied receipt line in responses
type ReceivedLineResponse struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Unit      string          `json:"unit"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ReceiveResultResponse represents the result of a receive operation
type ReceiveResultResponse struct {
	Order         PurchaseOrderResponse  `json:"order"`
	ReceivedItems []ReceivedLineResponse `json:"received_items"`
	FullyReceived bool                   `json:"fully_received"`
}

// StatusSummaryResponse represents order counts per status
type StatusSummaryResponse struct {
	Draft             int64 `json:"draft"`
	Pending           int64 `json:"pending"`
	Approved          int64 `json:"approved"`
	Ordered           int64 `json:"ordered"`
	PartiallyReceived int64 `json:"partially_received"`
	Received          int64 `json:"received"`
	Cancelled         int64 `json:"cancelled"`
	Total             int64 `json:"total"`
	PendingReceipt    int64 `json:"pending_receipt"`
}

// ToPurchaseOrderItemResponse converts a domain item to its response DTO
func ToPurchaseOrderItemResponse(item *purchasing.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		Unit:              item.Unit,
		Quantity:          item.Quantity,
		ReceivedQuantity:  item.ReceivedQuantity,
		RemainingQuantity: item.RemainingQuantity(),
		UnitPrice:         item.UnitPrice,
		Discount:          item.Discount,
		Tax:               item.Tax,
		TotalPrice:        item.TotalPrice,
	}
}

// ToPurchaseOrderResponse converts a domain order to its response DTO
func ToPurchaseOrderResponse(order *purchasing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToPurchaseOrderItemResponse(&order.Items[i])
	}

	return PurchaseOrderResponse{
		ID:                   order.ID,
		PurchaseOrderNumber:  order.PurchaseOrderNumber,
		SupplierID:           order.SupplierID,
		Items:                items,
		ItemCount:            order.ItemCount(),
		TotalQuantity:        order.TotalOrderedQuantity(),
		ReceivedQuantity:     order.TotalReceivedQuantity(),
		Subtotal:             order.Subtotal,
		TotalDiscount:        order.TotalDiscount,
		TotalTax:             order.TotalTax,
		ShippingCost:         order.ShippingCost,
		GrandTotal:           order.GrandTotal,
		Status:               order.Status.String(),
		PaymentStatus:        order.PaymentStatus.String(),
		PaymentMethod:        order.PaymentMethod,
		PaymentTerms:         string(order.PaymentTerms),
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		ApprovedAt:           order.ApprovedAt,
		ActualDeliveryDate:   order.ActualDeliveryDate,
		CancelledAt:          order.CancelledAt,
		CreatedBy:            order.CreatedBy,
		ApprovedBy:           order.ApprovedBy,
		Notes:                order.Notes,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
		Version:              order.Version,
	}
}

// ToPurchaseOrderListItemResponse converts a domain order to its list DTO
func ToPurchaseOrderListItemResponse(order *purchasing.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:                  order.ID,
		PurchaseOrderNumber: order.PurchaseOrderNumber,
		SupplierID:          order.SupplierID,
		ItemCount:           order.ItemCount(),
		GrandTotal:          order.GrandTotal,
		Status:              order.Status.String(),
		PaymentStatus:       order.PaymentStatus.String(),
		OrderDate:           order.OrderDate,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of domain orders
func ToPurchaseOrderListItemResponses(orders []purchasing.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(&orders[i])
	}
	return responses
}

// ToReceivedLineResponses converts applied receipt lines
func ToReceivedLineResponses(lines []purchasing.ReceivedLine) []ReceivedLineResponse {
	responses := make([]ReceivedLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ReceivedLineResponse{
			ItemID:    line.ItemID,
			ProductID: line.ProductID,
			Unit:      line.Unit,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	return responses
}
