package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set("request_id", "ctx-id")
		c.Request.Header.Set("X-Request-ID", "header-id")

		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-Request-ID", "header-id")

		assert.Equal(t, "header-id", getRequestID(c))
	})

	t.Run("empty when not set", func(t *testing.T) {
		c, _ := newTestContext(t)

		assert.Equal(t, "", getRequestID(c))
	})
}

func TestGetActorID(t *testing.T) {
	t.Run("absent header yields nil actor", func(t *testing.T) {
		c, _ := newTestContext(t)

		actorID, err := getActorID(c)
		assert.NoError(t, err)
		assert.Equal(t, uuid.Nil, actorID)
	})

	t.Run("valid header", func(t *testing.T) {
		c, _ := newTestContext(t)
		want := uuid.New()
		c.Request.Header.Set("X-User-ID", want.String())

		actorID, err := getActorID(c)
		assert.NoError(t, err)
		assert.Equal(t, want, actorID)
	})

	t.Run("malformed header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-User-ID", "not-a-uuid")

		_, err := getActorID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"forbidden transition", shared.NewDomainError("FORBIDDEN", "Illegal transition from draft to received"), http.StatusForbidden, dto.ErrCodeForbidden},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"duplicate receipt request", shared.NewDomainError("DUPLICATE_REQUEST", "Receipt already processed"), http.StatusConflict, dto.ErrCodeDuplicateRequest},
		{"quantity exceeded", shared.NewDomainError("QUANTITY_EXCEEDED", "Receipt exceeds remaining quantity"), http.StatusBadRequest, dto.ErrCodeQuantityExceeded},
		{"frozen edit", shared.NewDomainError("FORBIDDEN", "Items are frozen in approved status"), http.StatusForbidden, dto.ErrCodeForbidden},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"input validation", shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"unknown error type", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleDomainError_RequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set("request_id", "req-789")

	h.HandleDomainError(c, shared.ErrNotFound)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-789", resp.Error.RequestID)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.SuccessWithMeta(c, []int{1, 2, 3}, 3, 1, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.TotalPages)
}
