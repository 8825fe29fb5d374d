package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
)

// PublicProductResponse is the catalog entry shown to unauthenticated
// visitors. It never carries stock or billing data.
type PublicProductResponse struct {
	ID              uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	Category        catalog.ProductCategory `json:"category"`
	CategoryDisplay string                  `json:"category_display"`
	Price           decimal.Decimal         `json:"price"`
	Description     string                  `json:"description,omitempty"`
	ImageURL        string                  `json:"image_url,omitempty"`
}

// CategoryResponse pairs a category value with its display label
type CategoryResponse struct {
	Value   catalog.ProductCategory `json:"value"`
	Display string                  `json:"display"`
}
