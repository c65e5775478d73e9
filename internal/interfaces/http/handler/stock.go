package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/stockflow/backend/internal/application/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
)

// StockHandler handles manual stock operation API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// StockIn posts a manual inbound stock movement
func (h *StockHandler) StockIn(c *gin.Context) {
	var req inventoryapp.StockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	req.PerformedBy = actorID

	movement, err := h.stockService.StockIn(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, movement)
}

// StockOut posts a manual outbound stock movement
func (h *StockHandler) StockOut(c *gin.Context) {
	var req inventoryapp.StockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	req.PerformedBy = actorID

	movement, err := h.stockService.StockOut(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, movement)
}

// Adjust sets the stock of a product to a counted target value and records
// the difference as an adjustment movement
func (h *StockHandler) Adjust(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	req.PerformedBy = actorID

	movement, err := h.stockService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, movement)
}

// Transfer moves quantity between two locations without changing total stock
func (h *StockHandler) Transfer(c *gin.Context) {
	var req inventoryapp.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	req.PerformedBy = actorID

	movement, err := h.stockService.TransferStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, movement)
}

// ListMovements retrieves a paginated list of stock movements
func (h *StockHandler) ListMovements(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if movementType := c.Query("type"); movementType != "" {
		filter.Filters["type"] = movementType
	}
	if reason := c.Query("reason"); reason != "" {
		filter.Filters["reason"] = reason
	}
	if productIDStr := c.Query("product_id"); productIDStr != "" {
		productID, err := uuid.Parse(productIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		filter.Filters["product_id"] = productID
	}
	if startDate := c.Query("start_date"); startDate != "" {
		t, err := time.Parse(time.RFC3339, startDate)
		if err != nil {
			h.BadRequest(c, "Invalid start date format")
			return
		}
		filter.Filters["start_date"] = t
	}
	if endDate := c.Query("end_date"); endDate != "" {
		t, err := time.Parse(time.RFC3339, endDate)
		if err != nil {
			h.BadRequest(c, "Invalid end date format")
			return
		}
		filter.Filters["end_date"] = t
	}

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// GetProductMovements retrieves the movement history of a product
func (h *StockHandler) GetProductMovements(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}

	movements, err := h.stockService.GetMovementsByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// GetProductLevels retrieves per-location stock for a product
func (h *StockHandler) GetProductLevels(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	levels, err := h.stockService.GetStockLevels(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, levels)
}
