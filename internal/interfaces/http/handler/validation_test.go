package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/backend/internal/interfaces/http/dto"
	"github.com/stockflow/backend/internal/interfaces/http/middleware"
)

func newJSONRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestBaseHandler_BindingError(t *testing.T) {
	middleware.SetupValidator()
	h := &BaseHandler{}

	type payload struct {
		Name     string `json:"name" binding:"required"`
		Quantity int    `json:"quantity" binding:"min=1"`
	}

	t.Run("validator errors become field details", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Request = newJSONRequest(http.MethodPost,`{"quantity":0}`)

		var p payload
		err := c.ShouldBindJSON(&p)
		require.Error(t, err)

		h.BindingError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 2)

		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "quantity")
	})

	t.Run("malformed JSON stays a plain bad request", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Request = newJSONRequest(http.MethodPost,`{not json`)

		var p payload
		err := c.ShouldBindJSON(&p)
		require.Error(t, err)

		h.BindingError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})
}
