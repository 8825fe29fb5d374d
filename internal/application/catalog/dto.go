package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
)

// CreateProductRequest carries the data for creating a product
type CreateProductRequest struct {
	Name        string                  `json:"name" binding:"required,max=200"`
	Category    catalog.ProductCategory `json:"category" binding:"required"`
	Price       decimal.Decimal         `json:"price" binding:"required"`
	Description string                  `json:"description"`
}

// UpdateProductRequest carries a partial product update
type UpdateProductRequest struct {
	Name        *string                  `json:"name"`
	Category    *catalog.ProductCategory `json:"category"`
	Price       *decimal.Decimal         `json:"price"`
	Description *string                  `json:"description"`
	Active      *bool                    `json:"active"`
}

// ProductListFilter mirrors the repository filter for the HTTP layer
type ProductListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	Category   *catalog.ProductCategory
	ActiveOnly bool
}

// ProductResponse is the full product representation. ImageURL is a
// presigned download link, present only when an image is attached.
type ProductResponse struct {
	ID              uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	Category        catalog.ProductCategory `json:"category"`
	CategoryDisplay string                  `json:"category_display"`
	Price           decimal.Decimal         `json:"price"`
	Description     string                  `json:"description,omitempty"`
	Active          bool                    `json:"active"`
	ImageURL        string                  `json:"image_url,omitempty"`
	TotalQuantity   int                     `json:"total_quantity"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// InitiateMediaUploadRequest asks for a presigned upload URL for a product
// image
type InitiateMediaUploadRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// InitiateMediaUploadResponse carries the presigned upload URL and the key
// the client must confirm with once the upload finishes
type InitiateMediaUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ToProductResponse converts a product aggregate to its representation
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              product.ID,
		Name:            product.Name,
		Category:        product.Category,
		CategoryDisplay: product.Category.DisplayName(),
		Price:           product.Price,
		Description:     product.Description,
		Active:          product.Active,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
}
