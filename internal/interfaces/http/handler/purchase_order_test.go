package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	purchasingapp "github.com/stockflow/backend/internal/application/purchasing"
	"github.com/stockflow/backend/internal/domain/purchasing"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
)

// MockPurchaseOrderRepository implements purchasing.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByStatus(ctx context.Context, status purchasing.PurchaseOrderStatus, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindPendingReceipt(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CountByStatus(ctx context.Context) (map[purchasing.PurchaseOrderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[purchasing.PurchaseOrderStatus]int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) NextOrderNumber(ctx context.Context, date time.Time) (string, error) {
	args := m.Called(ctx, date)
	return args.String(0), args.Error(1)
}

func newPurchaseOrderHandler(orderRepo purchasing.PurchaseOrderRepository) *PurchaseOrderHandler {
	service := purchasingapp.NewPurchaseOrderService(nil, orderRepo, nil, nil, zap.NewNop())
	return NewPurchaseOrderHandler(service)
}

func performRequest(h gin.HandlerFunc, method, path string, body []byte, params gin.Params, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	c.Params = params
	h(c)
	return w
}

func TestPurchaseOrderHandler_GetByID(t *testing.T) {
	t.Run("returns order", func(t *testing.T) {
		mockRepo := new(MockPurchaseOrderRepository)
		handler := newPurchaseOrderHandler(mockRepo)

		order, err := purchasing.NewPurchaseOrder("PO-202608-00001", uuid.New(), purchasing.PurchaseOrderStatusDraft, time.Now(), uuid.New())
		require.NoError(t, err)

		mockRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := performRequest(handler.GetByID, http.MethodGet, "/purchase-orders/"+order.ID.String(), nil,
			gin.Params{{Key: "id", Value: order.ID.String()}}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "PO-202608-00001", data["purchase_order_number"])
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing order yields 404", func(t *testing.T) {
		mockRepo := new(MockPurchaseOrderRepository)
		handler := newPurchaseOrderHandler(mockRepo)

		orderID := uuid.New()
		mockRepo.On("FindByID", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

		w := performRequest(handler.GetByID, http.MethodGet, "/purchase-orders/"+orderID.String(), nil,
			gin.Params{{Key: "id", Value: orderID.String()}}, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("malformed id yields 400", func(t *testing.T) {
		mockRepo := new(MockPurchaseOrderRepository)
		handler := newPurchaseOrderHandler(mockRepo)

		w := performRequest(handler.GetByID, http.MethodGet, "/purchase-orders/nope", nil,
			gin.Params{{Key: "id", Value: "nope"}}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "FindByID")
	})
}

func TestPurchaseOrderHandler_List(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	handler := newPurchaseOrderHandler(mockRepo)

	order, err := purchasing.NewPurchaseOrder("PO-202608-00002", uuid.New(), purchasing.PurchaseOrderStatusPending, time.Now(), uuid.New())
	require.NoError(t, err)

	mockRepo.On("FindAll", mock.Anything, mock.Anything).Return([]purchasing.PurchaseOrder{*order}, nil)
	mockRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	w := performRequest(handler.List, http.MethodGet, "/purchase-orders?page=1&page_size=20", nil, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	mockRepo.AssertExpectations(t)
}

func TestPurchaseOrderHandler_GetStatusSummary(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	handler := newPurchaseOrderHandler(mockRepo)

	mockRepo.On("CountByStatus", mock.Anything).Return(map[purchasing.PurchaseOrderStatus]int64{
		purchasing.PurchaseOrderStatusDraft:   2,
		purchasing.PurchaseOrderStatusOrdered: 3,
	}, nil)

	w := performRequest(handler.GetStatusSummary, http.MethodGet, "/purchase-orders/stats/summary", nil, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["draft"])
	assert.Equal(t, float64(3), data["ordered"])
	assert.Equal(t, float64(5), data["total"])
	assert.Equal(t, float64(3), data["pending_receipt"])
}

func TestPurchaseOrderHandler_Receive_BadInput(t *testing.T) {
	t.Run("empty items rejected by binding", func(t *testing.T) {
		mockRepo := new(MockPurchaseOrderRepository)
		handler := newPurchaseOrderHandler(mockRepo)

		orderID := uuid.New()
		w := performRequest(handler.Receive, http.MethodPost, "/purchase-orders/"+orderID.String()+"/receive",
			[]byte(`{"received_items":[]}`), gin.Params{{Key: "id", Value: orderID.String()}}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "FindByIDForUpdate")
	})

	t.Run("body without received_items rejected", func(t *testing.T) {
		mockRepo := new(MockPurchaseOrderRepository)
		handler := newPurchaseOrderHandler(mockRepo)

		orderID := uuid.New()
		itemID := uuid.New()
		body := []byte(`{"items":[{"item_id":"` + itemID.String() + `","quantity":5}]}`)

		w := performRequest(handler.Receive, http.MethodPost, "/purchase-orders/"+orderID.String()+"/receive",
			body, gin.Params{{Key: "id", Value: orderID.String()}}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "FindByIDForUpdate")
	})

	t.Run("malformed actor header rejected", func(t *testing.T) {
		mockRepo := new(MockPurchaseOrderRepository)
		handler := newPurchaseOrderHandler(mockRepo)

		orderID := uuid.New()
		itemID := uuid.New()
		body := []byte(`{"received_items":[{"item_id":"` + itemID.String() + `","quantity":5}]}`)

		w := performRequest(handler.Receive, http.MethodPost, "/purchase-orders/"+orderID.String()+"/receive",
			body, gin.Params{{Key: "id", Value: orderID.String()}},
			map[string]string{"X-User-ID": "not-a-uuid"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPurchaseOrderHandler_Create_BadBody(t *testing.T) {
	mockRepo := new(MockPurchaseOrderRepository)
	handler := newPurchaseOrderHandler(mockRepo)

	w := performRequest(handler.Create, http.MethodPost, "/purchase-orders", []byte(`{"status":"received"}`), nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "NextOrderNumber")
}
