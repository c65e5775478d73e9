package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/backend/internal/domain/partner"
	"github.com/stockflow/backend/internal/domain/shared"
)

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) SaveWithLock(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func TestSupplierService_Create(t *testing.T) {
	t.Run("creates supplier", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		repo.On("ExistsByCode", mock.Anything, "SUP-001").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Supplier")).Return(nil)

		service := NewSupplierService(repo, nil)
		response, err := service.Create(context.Background(), CreateSupplierRequest{
			Code:         "SUP-001",
			Name:         "Acme Fasteners",
			PaymentTerms: "net_15",
		})
		require.NoError(t, err)

		assert.Equal(t, "SUP-001", response.Code)
		assert.Equal(t, "net_15", response.PaymentTerms)
		assert.Equal(t, "active", response.Status)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code rejected", func(t *testing.T) {
		repo := new(MockSupplierRepository)
		repo.On("ExistsByCode", mock.Anything, "SUP-001").Return(true, nil)

		service := NewSupplierService(repo, nil)
		_, err := service.Create(context.Background(), CreateSupplierRequest{Code: "SUP-001", Name: "Acme"})
		require.Error(t, err)
		assert.Equal(t, "ALREADY_EXISTS", shared.GetErrorCode(err))
		repo.AssertNotCalled(t, "Save")
	})
}

func TestSupplierService_Delete(t *testing.T) {
	t.Run("open balance blocks deletion", func(t *testing.T) {
		supplier, err := partner.NewSupplier("SUP-001", "Acme")
		require.NoError(t, err)
		require.NoError(t, supplier.ApplyPaymentTransition(false, true, decimal.NewFromInt(100)))

		repo := new(MockSupplierRepository)
		repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)

		service := NewSupplierService(repo, nil)
		err = service.Delete(context.Background(), supplier.ID)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", shared.GetErrorCode(err))
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("clean supplier deletes", func(t *testing.T) {
		supplier, err := partner.NewSupplier("SUP-002", "Bolt Co")
		require.NoError(t, err)

		repo := new(MockSupplierRepository)
		repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
		repo.On("Delete", mock.Anything, supplier.ID).Return(nil)

		service := NewSupplierService(repo, nil)
		require.NoError(t, service.Delete(context.Background(), supplier.ID))
		repo.AssertExpectations(t)
	})
}

func TestSupplierService_Update(t *testing.T) {
	supplier, err := partner.NewSupplier("SUP-001", "Acme")
	require.NoError(t, err)

	repo := new(MockSupplierRepository)
	repo.On("FindByID", mock.Anything, supplier.ID).Return(supplier, nil)
	repo.On("SaveWithLock", mock.Anything, supplier).Return(nil)

	service := NewSupplierService(repo, nil)
	name := "Acme Industrial"
	active := false
	response, err := service.Update(context.Background(), supplier.ID, UpdateSupplierRequest{
		Name:   &name,
		Active: &active,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Industrial", response.Name)
	assert.Equal(t, "inactive", response.Status)
	repo.AssertExpectations(t)
}
