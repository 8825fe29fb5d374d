package handler

import (
	inventoryapp "github.com/Yousefaborizk/moonstar/internal/application/inventory"
	"github.com/Yousefaborizk/moonstar/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse and stock endpoints
type WarehouseHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(stockService *inventoryapp.StockService) *WarehouseHandler {
	return &WarehouseHandler{stockService: stockService}
}

// Create creates a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.stockService.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single warehouse with its stock rows
func (h *WarehouseHandler) Get(c *gin.Context) {
	warehouseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	resp, err := h.stockService.GetWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated warehouse listing
func (h *WarehouseHandler) List(c *gin.Context) {
	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.stockService.ListWarehouses(c.Request.Context(), inventoryapp.WarehouseListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update applies a partial update to a warehouse
func (h *WarehouseHandler) Update(c *gin.Context) {
	warehouseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req inventoryapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.stockService.UpdateWarehouse(c.Request.Context(), warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a warehouse
func (h *WarehouseHandler) Delete(c *gin.Context) {
	warehouseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	if err := h.stockService.DeleteWarehouse(c.Request.Context(), warehouseID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddStock records a stock intake, accumulating onto any existing row
func (h *WarehouseHandler) AddStock(c *gin.Context) {
	warehouseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req inventoryapp.StockIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.stockService.AddStock(c.Request.Context(), warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetStock overwrites the quantity of one product in the warehouse
func (h *WarehouseHandler) SetStock(c *gin.Context) {
	warehouseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req inventoryapp.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.stockService.SetStock(c.Request.Context(), warehouseID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveStock drops a product's stock row from the warehouse
func (h *WarehouseHandler) RemoveStock(c *gin.Context) {
	warehouseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.stockService.RemoveStock(c.Request.Context(), warehouseID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
