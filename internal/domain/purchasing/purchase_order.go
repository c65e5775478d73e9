package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockflow/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the lifecycle status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "draft"
	PurchaseOrderStatusPending           PurchaseOrderStatus = "pending"
	PurchaseOrderStatusApproved          PurchaseOrderStatus = "approved"
	PurchaseOrderStatusOrdered           PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPending, PurchaseOrderStatusApproved,
		PurchaseOrderStatusOrdered, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that permit no further transitions
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// CanTransitionTo checks whether the status endpoint may move the order to
// the target status directly. Transitions into partially_received and
// received are produced only by the receipt flow, never accepted here.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusPending || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusOrdered || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusOrdered, PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved ||
		s == PurchaseOrderStatusOrdered ||
		s == PurchaseOrderStatusPartiallyReceived
}

// PaymentStatus represents the payment state of a purchase order
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusPaid          PaymentStatus = "paid"
)

// IsValid checks if the payment status is valid
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusUnpaid, PaymentStatusPartiallyPaid, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (p PaymentStatus) String() string {
	return string(p)
}

// CountsAsOutstanding reports whether the status leaves the order amount on
// the supplier's balance. partially_paid is treated like unpaid; the source
// carries no partial amount.
func (p PaymentStatus) CountsAsOutstanding() bool {
	return p != PaymentStatusPaid
}

// PaymentTerms represents the agreed payment terms of a purchase order
type PaymentTerms string

const (
	PaymentTermsCash  PaymentTerms = "cash"
	PaymentTermsNet15 PaymentTerms = "net_15"
	PaymentTermsNet30 PaymentTerms = "net_30"
	PaymentTermsNet45 PaymentTerms = "net_45"
	PaymentTermsNet60 PaymentTerms = "net_60"
)

// IsValid checks if the payment terms value is valid
func (t PaymentTerms) IsValid() bool {
	switch t {
	case PaymentTermsCash, PaymentTermsNet15, PaymentTermsNet30, PaymentTermsNet45, PaymentTermsNet60:
		return true
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order.
// Quantities are integral units; money fields share the order currency.
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	Unit             string          `gorm:"type:varchar(20)"` // unit snapshot at order time
	Quantity         int             `gorm:"not null"`
	ReceivedQuantity int             `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity*UnitPrice - Discount + Tax
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID, productID uuid.UUID, unit string, quantity int, unitPrice, discount, tax decimal.Decimal) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if tax.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax cannot be negative")
	}

	total := lineTotal(quantity, unitPrice, discount, tax)
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed line amount")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		Unit:             unit,
		Quantity:         quantity,
		ReceivedQuantity: 0,
		UnitPrice:        unitPrice,
		Discount:         discount,
		Tax:              tax,
		TotalPrice:       total,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func lineTotal(quantity int, unitPrice, discount, tax decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(unitPrice).Sub(discount).Add(tax)
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() int {
	remaining := i.Quantity - i.ReceivedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity >= i.Quantity
}

// AddReceivedQuantity adds to the received quantity
func (i *PurchaseOrderItem) AddReceivedQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if i.ReceivedQuantity+quantity > i.Quantity {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Cannot receive %d for item %s, only %d remaining", quantity, i.ID, i.RemainingQuantity()))
	}

	i.ReceivedQuantity += quantity
	i.UpdatedAt = time.Now()

	return nil
}

// ReceiptLine addresses one item of a receipt request
type ReceiptLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// ReceivedLine describes one applied receipt line, carrying everything the
// stock poster needs for the corresponding inbound movement.
type ReceivedLine struct {
	ItemID    uuid.UUID
	ProductID uuid.UUID
	Unit      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PurchaseOrder is the aggregate root for a supplier order. It owns the line
// items, the derived totals, the lifecycle state machine and the payment
// state. All totals are recomputed by the aggregate; caller-supplied values
// are never trusted.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PurchaseOrderNumber string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items               []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDiscount       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status              PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	PaymentStatus       PaymentStatus       `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaymentMethod       string              `gorm:"type:varchar(50)"`
	PaymentTerms        PaymentTerms        `gorm:"type:varchar(20);not null;default:'net_30'"`
	OrderDate           time.Time           `gorm:"not null;index"`
	ExpectedDeliveryDate *time.Time
	ApprovedAt          *time.Time
	ActualDeliveryDate  *time.Time
	CancelledAt         *time.Time
	CreatedBy           uuid.UUID  `gorm:"type:uuid"`
	ApprovedBy          *uuid.UUID `gorm:"type:uuid"`
	Notes               string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft or pending status.
// The purchase order number must already be allocated by the caller.
func NewPurchaseOrder(number string, supplierID uuid.UUID, status PurchaseOrderStatus, orderDate time.Time, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Purchase order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if status != PurchaseOrderStatusDraft && status != PurchaseOrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Initial status must be draft or pending, got %s", status))
	}
	if orderDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ORDER_DATE", "Order date is required")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		PurchaseOrderNumber: number,
		SupplierID:          supplierID,
		Items:               make([]PurchaseOrderItem, 0),
		Subtotal:            decimal.Zero,
		TotalDiscount:       decimal.Zero,
		TotalTax:            decimal.Zero,
		ShippingCost:        decimal.Zero,
		GrandTotal:          decimal.Zero,
		Status:              status,
		PaymentStatus:       PaymentStatusUnpaid,
		PaymentTerms:        PaymentTermsNet30,
		OrderDate:           orderDate,
		CreatedBy:           createdBy,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line item. Allowed while items are editable
// (draft or pending status).
func (o *PurchaseOrder) AddItem(productID uuid.UUID, unit string, quantity int, unitPrice, discount, tax decimal.Decimal) (*PurchaseOrderItem, error) {
	if !o.ItemsEditable() {
		return nil, shared.NewDomainError("FORBIDDEN", "Items are frozen in "+o.Status.String()+" status")
	}

	item, err := NewPurchaseOrderItem(o.ID, productID, unit, quantity, unitPrice, discount, tax)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.touch()

	return item, nil
}

// ReplaceItems swaps the full item list, keeping received quantities at zero.
// Allowed while items are editable.
func (o *PurchaseOrder) ReplaceItems(items []PurchaseOrderItem) error {
	if !o.ItemsEditable() {
		return shared.NewDomainError("FORBIDDEN", "Items are frozen in "+o.Status.String()+" status")
	}
	for idx := range items {
		if items[idx].ReceivedQuantity != 0 {
			return shared.NewDomainError("INVALID_ITEM", "Replacement items cannot carry received quantities")
		}
		items[idx].OrderID = o.ID
	}

	o.Items = items
	o.recalculateTotals()
	o.touch()

	return nil
}

// SetShippingCost sets the shipping cost and recomputes the grand total.
// Allowed until the order reaches a receiving or terminal state.
func (o *PurchaseOrder) SetShippingCost(cost decimal.Decimal) error {
	if !o.MetadataEditable() {
		return shared.NewDomainError("FORBIDDEN", "Order cannot be modified in "+o.Status.String()+" status")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
	}

	o.ShippingCost = cost
	o.recalculateTotals()
	o.touch()

	return nil
}

// SetExpectedDeliveryDate sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDeliveryDate(date *time.Time) error {
	if !o.MetadataEditable() {
		return shared.NewDomainError("FORBIDDEN", "Order cannot be modified in "+o.Status.String()+" status")
	}

	o.ExpectedDeliveryDate = date
	o.touch()

	return nil
}

// SetNotes sets the free-text notes
func (o *PurchaseOrder) SetNotes(notes string) error {
	if !o.MetadataEditable() {
		return shared.NewDomainError("FORBIDDEN", "Order cannot be modified in "+o.Status.String()+" status")
	}

	o.Notes = notes
	o.touch()

	return nil
}

// SetPaymentTerms sets the agreed payment terms
func (o *PurchaseOrder) SetPaymentTerms(terms PaymentTerms) error {
	if !o.MetadataEditable() {
		return shared.NewDomainError("FORBIDDEN", "Order cannot be modified in "+o.Status.String()+" status")
	}
	if !terms.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Unknown payment terms: "+string(terms))
	}

	o.PaymentTerms = terms
	o.touch()

	return nil
}

// SetPaymentMethod sets the payment method label
func (o *PurchaseOrder) SetPaymentMethod(method string) {
	o.PaymentMethod = method
	o.touch()
}

// ChangePaymentStatus moves the payment status and reports the transition so
// the supplier account updater can apply the matching balance delta exactly
// once.
func (o *PurchaseOrder) ChangePaymentStatus(to PaymentStatus, method string) (PaymentStatus, error) {
	if !to.IsValid() {
		return "", shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status: "+string(to))
	}
	if o.Status == PurchaseOrderStatusCancelled {
		return "", shared.NewDomainError("INVALID_STATE", "Cancelled orders cannot be modified")
	}

	from := o.PaymentStatus
	o.PaymentStatus = to
	if method != "" {
		o.PaymentMethod = method
	}
	o.touch()

	if from != to {
		o.AddDomainEvent(NewPurchaseOrderPaymentChangedEvent(o, from, to))
	}

	return from, nil
}

// ChangeStatus applies a direct status-endpoint transition. Transitions into
// partially_received and received are rejected; they are produced only by
// Receive.
func (o *PurchaseOrder) ChangeStatus(target PurchaseOrderStatus, actor uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown status: "+string(target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Illegal transition from %s to %s", o.Status, target))
	}

	switch target {
	case PurchaseOrderStatusPending:
		return o.submit()
	case PurchaseOrderStatusApproved:
		return o.approve(actor)
	case PurchaseOrderStatusOrdered:
		return o.markOrdered()
	case PurchaseOrderStatusCancelled:
		return o.cancel()
	}

	return shared.NewDomainError("FORBIDDEN",
		fmt.Sprintf("Illegal transition from %s to %s", o.Status, target))
}

// submit moves draft to pending; a pending order must have items
func (o *PurchaseOrder) submit() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit an order without items")
	}

	o.Status = PurchaseOrderStatusPending
	o.touch()

	return nil
}

// approve moves pending to approved, recording the approver
func (o *PurchaseOrder) approve(actor uuid.UUID) error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve an order without items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedAt = &now
	if actor != uuid.Nil {
		o.ApprovedBy = &actor
	}
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))

	return nil
}

// markOrdered moves approved to ordered
func (o *PurchaseOrder) markOrdered() error {
	o.Status = PurchaseOrderStatusOrdered
	o.touch()

	return nil
}

// cancel freezes the order. Stock already posted for prior receipts stays;
// it is historical fact.
func (o *PurchaseOrder) cancel() error {
	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// Receive applies a partial receipt to the order. Every line must address an
// item of this order with a positive quantity no greater than what remains;
// otherwise nothing is applied. The status advances to partially_received or
// received based on the summed quantities.
func (o *PurchaseOrder) Receive(lines []ReceiptLine) ([]ReceivedLine, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Receipt lines cannot be empty")
	}

	// Validate every line before mutating anything
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Receive quantity for item %s must be positive", line.ItemID))
		}
		item := o.GetItem(line.ItemID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND",
				fmt.Sprintf("Item %s not found in order", line.ItemID))
		}
		if line.Quantity > item.RemainingQuantity() {
			return nil, shared.NewDomainError("QUANTITY_EXCEEDED",
				fmt.Sprintf("Cannot receive %d for item %s, only %d remaining", line.Quantity, line.ItemID, item.RemainingQuantity()))
		}
	}

	// Apply in item order so stock postings are deterministic
	received := make([]ReceivedLine, 0, len(lines))
	for idx := range o.Items {
		item := &o.Items[idx]
		for _, line := range lines {
			if line.ItemID != item.ID {
				continue
			}
			if err := item.AddReceivedQuantity(line.Quantity); err != nil {
				return nil, err
			}
			received = append(received, ReceivedLine{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Unit:      item.Unit,
				Quantity:  line.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
	}

	totalReceived := o.TotalReceivedQuantity()
	totalOrdered := o.TotalOrderedQuantity()
	if totalReceived > totalOrdered {
		return nil, shared.NewDomainError("INTERNAL", "Received quantity exceeds ordered quantity")
	}

	fullyReceived := totalReceived == totalOrdered && totalReceived > 0
	if fullyReceived {
		o.Status = PurchaseOrderStatusReceived
		if o.ActualDeliveryDate == nil {
			now := time.Now()
			o.ActualDeliveryDate = &now
		}
	} else if totalReceived > 0 {
		o.Status = PurchaseOrderStatusPartiallyReceived
	}
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, received, fullyReceived))

	return received, nil
}

// recalculateTotals recomputes the derived money fields from the items
func (o *PurchaseOrder) recalculateTotals() {
	subtotal := decimal.Zero
	totalDiscount := decimal.Zero
	totalTax := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice))
		totalDiscount = totalDiscount.Add(item.Discount)
		totalTax = totalTax.Add(item.Tax)
	}

	o.Subtotal = subtotal
	o.TotalDiscount = totalDiscount
	o.TotalTax = totalTax

	grand := subtotal.Sub(totalDiscount).Add(totalTax).Add(o.ShippingCost)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	o.GrandTotal = grand
}

// touch updates the modification timestamp. The version is bumped by the
// repository on save, not here.
func (o *PurchaseOrder) touch() {
	o.UpdatedAt = time.Now()
}

// ItemsEditable returns true while the item list may still change
func (o *PurchaseOrder) ItemsEditable() bool {
	return o.Status == PurchaseOrderStatusDraft || o.Status == PurchaseOrderStatusPending
}

// MetadataEditable returns true while non-lifecycle fields may still change.
// After approval the items and totals freeze but payment fields, dates,
// notes and shipping metadata remain editable.
func (o *PurchaseOrder) MetadataEditable() bool {
	switch o.Status {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPending, PurchaseOrderStatusApproved:
		return true
	}
	return false
}

// IsDraft returns true if the order is in draft status
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsTerminal returns true if the order is in a terminal state
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// GetItem returns an item by its ID, or nil
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// TotalOrderedQuantity returns the summed ordered quantity across items
func (o *PurchaseOrder) TotalOrderedQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalReceivedQuantity returns the summed received quantity across items
func (o *PurchaseOrder) TotalReceivedQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.ReceivedQuantity
	}
	return total
}

// HasReceipts returns true if any goods have been received
func (o *PurchaseOrder) HasReceipts() bool {
	return o.TotalReceivedQuantity() > 0
}

// ItemCount returns the number of line items
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}
