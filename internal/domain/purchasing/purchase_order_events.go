package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflow/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated        = "PurchaseOrderCreated"
	EventTypePurchaseOrderApproved       = "PurchaseOrderApproved"
	EventTypePurchaseOrderReceived       = "PurchaseOrderReceived"
	EventTypePurchaseOrderCancelled      = "PurchaseOrderCancelled"
	EventTypePurchaseOrderPaymentChanged = "PurchaseOrderPaymentChanged"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	SupplierID  uuid.UUID           `json:"supplier_id"`
	Status      PurchaseOrderStatus `json:"status"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.PurchaseOrderNumber,
		SupplierID:      order.SupplierID,
		Status:          order.Status,
	}
}

// PurchaseOrderApprovedEvent is raised when a purchase order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	ApprovedBy  *uuid.UUID      `json:"approved_by,omitempty"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.PurchaseOrderNumber,
		SupplierID:      order.SupplierID,
		GrandTotal:      order.GrandTotal,
		ApprovedBy:      order.ApprovedBy,
	}
}

// ReceivedLineInfo carries one applied receipt line on the received event
type ReceivedLineInfo struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Unit      string          `json:"unit"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PurchaseOrderReceivedEvent is raised every time goods are received against
// a purchase order, partially or in full
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	SupplierID    uuid.UUID           `json:"supplier_id"`
	Status        PurchaseOrderStatus `json:"status"`
	Lines         []ReceivedLineInfo  `json:"lines"`
	FullyReceived bool                `json:"fully_received"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	OrderDate     time.Time           `json:"order_date"`
	PaymentStatus PaymentStatus       `json:"payment_status"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, received []ReceivedLine, fullyReceived bool) *PurchaseOrderReceivedEvent {
	lines := make([]ReceivedLineInfo, len(received))
	for i, line := range received {
		lines[i] = ReceivedLineInfo{
			ItemID:    line.ItemID,
			ProductID: line.ProductID,
			Unit:      line.Unit,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.PurchaseOrderNumber,
		SupplierID:      order.SupplierID,
		Status:          order.Status,
		Lines:           lines,
		FullyReceived:   fullyReceived,
		GrandTotal:      order.GrandTotal,
		OrderDate:       order.OrderDate,
		PaymentStatus:   order.PaymentStatus,
	}
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	HadReceipts bool      `json:"had_receipts"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.PurchaseOrderNumber,
		SupplierID:      order.SupplierID,
		HadReceipts:     order.HasReceipts(),
	}
}

// PurchaseOrderPaymentChangedEvent is raised when the payment status moves
type PurchaseOrderPaymentChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	SupplierID  uuid.UUID           `json:"supplier_id"`
	From        PaymentStatus       `json:"from"`
	To          PaymentStatus       `json:"to"`
	GrandTotal  decimal.Decimal     `json:"grand_total"`
	OrderStatus PurchaseOrderStatus `json:"order_status"`
}

// NewPurchaseOrderPaymentChangedEvent creates a new PurchaseOrderPaymentChangedEvent
func NewPurchaseOrderPaymentChangedEvent(order *PurchaseOrder, from, to PaymentStatus) *PurchaseOrderPaymentChangedEvent {
	return &PurchaseOrderPaymentChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderPaymentChanged, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.PurchaseOrderNumber,
		SupplierID:      order.SupplierID,
		From:            from,
		To:              to,
		GrandTotal:      order.GrandTotal,
		OrderStatus:     order.Status,
	}
}
