package handler

import (
	salesapp "github.com/Yousefaborizk/moonstar/internal/application/sales"
	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
	"github.com/gin-gonic/gin"
)

// SalesHandler handles the public, unauthenticated catalog endpoints
type SalesHandler struct {
	BaseHandler
	catalogService *salesapp.CatalogService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(catalogService *salesapp.CatalogService) *SalesHandler {
	return &SalesHandler{catalogService: catalogService}
}

// ListProducts returns the active catalog, optionally filtered by category
func (h *SalesHandler) ListProducts(c *gin.Context) {
	var category *catalog.ProductCategory
	if raw := c.Query("category"); raw != "" {
		cat := catalog.ProductCategory(raw)
		category = &cat
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), category)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// GetProduct returns one active product. Inactive and unknown products
// both come back as 404.
func (h *SalesHandler) GetProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ListCategories returns all product categories with display labels
func (h *SalesHandler) ListCategories(c *gin.Context) {
	h.Success(c, h.catalogService.Categories())
}
