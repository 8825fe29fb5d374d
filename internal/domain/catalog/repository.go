package catalog

import (
	"context"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductFilter defines filtering options for product queries
type ProductFilter struct {
	shared.Filter
	Category   *ProductCategory // Filter by category
	ActiveOnly bool             // Restrict to products visible in the public catalog
	Search     string           // Match against product name
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs loads a set of products in one query
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll lists products with filtering and pagination
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error
}
