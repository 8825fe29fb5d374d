package inventory

import (
	"context"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseFilter defines filtering options for warehouse queries
type WarehouseFilter struct {
	shared.Filter
	Search string // Match against warehouse name
}

// WarehouseRepository defines the interface for warehouse persistence.
// Implementations persist the aggregate with its stock rows so an intake
// and the resulting quantity are stored together.
type WarehouseRepository interface {
	// FindByID loads a warehouse with its stock rows
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)

	// FindByName finds a warehouse by its unique name
	FindByName(ctx context.Context, name string) (*Warehouse, error)

	// FindAll lists warehouses with filtering and pagination
	FindAll(ctx context.Context, filter WarehouseFilter) ([]Warehouse, error)

	// Count counts warehouses matching the filter
	Count(ctx context.Context, filter WarehouseFilter) (int64, error)

	// Save creates or updates the aggregate including stock rows
	Save(ctx context.Context, warehouse *Warehouse) error

	// Delete removes a warehouse and its stock rows
	Delete(ctx context.Context, id uuid.UUID) error

	// TotalStockForProduct sums the product's quantity across all warehouses
	TotalStockForProduct(ctx context.Context, productID uuid.UUID) (int, error)
}
