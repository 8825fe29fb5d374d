package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Yousefaborizk/moonstar/internal/domain/inventory"
)

// CreateWarehouseRequest carries the data for creating a warehouse
type CreateWarehouseRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Location string `json:"location"`
}

// UpdateWarehouseRequest carries a warehouse update
type UpdateWarehouseRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Location string `json:"location"`
}

// StockIntakeRequest records an intake of a product into a warehouse.
// Repeated intakes for the same product accumulate.
type StockIntakeRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// SetStockRequest overwrites the held quantity for a product
type SetStockRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// WarehouseListFilter mirrors the repository filter for the HTTP layer
type WarehouseListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// StockResponse is one stock row with its derived value
type StockResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// WarehouseResponse is the full warehouse representation. TotalValue is the
// sum of quantity times current product price over all stock rows.
type WarehouseResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Location      string          `json:"location,omitempty"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Stocks        []StockResponse `json:"stocks"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// WarehouseListResponse is the compact representation used by list endpoints
type WarehouseListResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location,omitempty"`
	TotalQuantity int       `json:"total_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToWarehouseListResponse converts a warehouse to its compact representation
func ToWarehouseListResponse(w *inventory.Warehouse) WarehouseListResponse {
	return WarehouseListResponse{
		ID:            w.ID,
		Name:          w.Name,
		Location:      w.Location,
		TotalQuantity: w.TotalQuantity(),
		CreatedAt:     w.CreatedAt,
	}
}
