package partner

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockflow/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// IsValid checks if the supplier status is valid
func (s SupplierStatus) IsValid() bool {
	return s == SupplierStatusActive || s == SupplierStatusInactive
}

// Supplier is the partner aggregate for a goods supplier. TotalOrders,
// TotalPurchaseAmount, CurrentBalance and LastOrderDate are denormalized
// running totals maintained only by the account updater on terminal
// purchase order events.
type Supplier struct {
	shared.BaseAggregateRoot
	Code                string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                string          `gorm:"type:varchar(200);not null"`
	ContactName         string          `gorm:"type:varchar(100)"`
	Phone               string          `gorm:"type:varchar(50)"`
	Email               string          `gorm:"type:varchar(100)"`
	Address             string          `gorm:"type:text"`
	PaymentTerms        string          `gorm:"type:varchar(20);not null;default:'net_30'"`
	Status              SupplierStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	TotalOrders         int             `gorm:"not null;default:0"`
	TotalPurchaseAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastOrderDate       *time.Time
	Notes               string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(code, name string) (*Supplier, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Code:                code,
		Name:                name,
		PaymentTerms:        "net_30",
		Status:              SupplierStatusActive,
		TotalPurchaseAmount: decimal.Zero,
		CurrentBalance:      decimal.Zero,
	}, nil
}

// Update updates the descriptive fields
func (s *Supplier) Update(name, contactName, phone, email, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	s.Name = name
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.touch()

	return nil
}

// SetPaymentTerms sets the default payment terms for new orders
func (s *Supplier) SetPaymentTerms(terms string) error {
	if terms == "" {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be empty")
	}

	s.PaymentTerms = terms
	s.touch()

	return nil
}

// SetNotes sets the free-text notes
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.touch()
}

// Activate marks the supplier as active
func (s *Supplier) Activate() {
	s.Status = SupplierStatusActive
	s.touch()
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() {
	s.Status = SupplierStatusInactive
	s.touch()
}

// IsActive returns true if the supplier is active
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// RecordPurchaseReceived applies the terminal-receipt deltas: one more
// order, the order total added to the purchase amount, the order date
// folded into LastOrderDate, and the open amount added to the balance when
// the order is still outstanding. Called exactly once per received order.
func (s *Supplier) RecordPurchaseReceived(grandTotal decimal.Decimal, orderDate time.Time, outstanding bool) error {
	if grandTotal.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Order total cannot be negative")
	}

	s.TotalOrders++
	s.TotalPurchaseAmount = s.TotalPurchaseAmount.Add(grandTotal)
	if s.LastOrderDate == nil || orderDate.After(*s.LastOrderDate) {
		d := orderDate
		s.LastOrderDate = &d
	}
	if outstanding {
		s.CurrentBalance = s.CurrentBalance.Add(grandTotal)
	}
	s.touch()

	return nil
}

// ApplyPaymentTransition moves the open amount of an order on or off the
// balance when its payment status crosses the paid boundary. Transitions
// that stay on the same side are no-ops, which keeps the update idempotent
// per recorded transition.
func (s *Supplier) ApplyPaymentTransition(fromOutstanding, toOutstanding bool, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if fromOutstanding == toOutstanding {
		return nil
	}

	if toOutstanding {
		s.CurrentBalance = s.CurrentBalance.Add(amount)
	} else {
		s.CurrentBalance = s.CurrentBalance.Sub(amount)
	}
	s.touch()

	return nil
}

// HasBalance returns true when the supplier has an open balance
func (s *Supplier) HasBalance() bool {
	return s.CurrentBalance.IsPositive()
}

// touch updates the modification timestamp. The version is bumped by the
// repository on save, not here.
func (s *Supplier) touch() {
	s.UpdatedAt = time.Now()
}
