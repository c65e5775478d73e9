package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockflow/backend/internal/domain/partner"
	"github.com/stockflow/backend/internal/domain/shared"
)

// SupplierService implements the supplier use cases. The account aggregates
// (order counts, purchase totals, balance) are read-only here; they move
// only inside purchase order transactions.
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a supplier service
func NewSupplierService(supplierRepo partner.SupplierRepository, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{supplierRepo: supplierRepo, logger: logger}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier code "+req.Code+" is already taken")
	}

	supplier, err := partner.NewSupplier(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" || req.Address != "" {
		if err := supplier.Update(req.Name, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
			return nil, err
		}
	}
	if req.PaymentTerms != "" {
		if err := supplier.SetPaymentTerms(req.PaymentTerms); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("code", supplier.Code),
	)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter shared.Filter) ([]SupplierResponse, int64, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierResponses(suppliers), total, nil
}

// Update updates a supplier's descriptive fields
func (s *SupplierService) Update(ctx context.Context, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	name := supplier.Name
	if req.Name != nil {
		name = *req.Name
	}
	contactName := supplier.ContactName
	if req.ContactName != nil {
		contactName = *req.ContactName
	}
	phone := supplier.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	email := supplier.Email
	if req.Email != nil {
		email = *req.Email
	}
	address := supplier.Address
	if req.Address != nil {
		address = *req.Address
	}
	if err := supplier.Update(name, contactName, phone, email, address); err != nil {
		return nil, err
	}

	if req.PaymentTerms != nil {
		if err := supplier.SetPaymentTerms(*req.PaymentTerms); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}
	if req.Active != nil {
		if *req.Active {
			supplier.Activate()
		} else {
			supplier.Deactivate()
		}
	}

	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete deletes a supplier. Suppliers with an open balance stay.
func (s *SupplierService) Delete(ctx context.Context, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier.HasBalance() {
		return shared.NewDomainError("FORBIDDEN", "Suppliers with an open balance cannot be deleted")
	}

	return s.supplierRepo.Delete(ctx, supplier.ID)
}
