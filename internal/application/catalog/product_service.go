// Package catalog contains the application services for product management.
package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
	"github.com/Yousefaborizk/moonstar/internal/domain/inventory"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
)

// allowedImageContentTypes whitelists what may be uploaded as product media
var allowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ObjectStorageService defines the interface for object storage operations.
// This interface is implemented by the infrastructure layer.
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// CatalogCacheInvalidator drops cached public catalog reads after a write
type CatalogCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultProductServiceConfig returns the default configuration
func DefaultProductServiceConfig() ProductServiceConfig {
	return ProductServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo   catalog.ProductRepository
	invoiceRepo   billing.InvoiceRepository
	warehouseRepo inventory.WarehouseRepository
	storage       ObjectStorageService
	cache         CatalogCacheInvalidator
	config        ProductServiceConfig
	logger        *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	invoiceRepo billing.InvoiceRepository,
	warehouseRepo inventory.WarehouseRepository,
	storage ObjectStorageService,
	cache CatalogCacheInvalidator,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:   productRepo,
		invoiceRepo:   invoiceRepo,
		warehouseRepo: warehouseRepo,
		storage:       storage,
		cache:         cache,
		config:        DefaultProductServiceConfig(),
		logger:        logger,
	}
}

// SetConfig sets the service configuration
func (s *ProductService) SetConfig(config ProductServiceConfig) {
	s.config = config
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Category, valueobject.NewMoney(req.Price), req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}

	s.invalidateCache(ctx)

	response := s.toResponse(ctx, product)
	return &response, nil
}

// GetByID retrieves a product with its aggregate stock quantity
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := s.toResponse(ctx, product)
	if s.warehouseRepo != nil {
		if qty, err := s.warehouseRepo.TotalStockForProduct(ctx, productID); err == nil {
			response.TotalQuantity = qty
		}
	}
	return &response, nil
}

// List retrieves products matching the filter with pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Category:   filter.Category,
		ActiveOnly: filter.ActiveOnly,
		Search:     filter.Search,
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, s.toResponse(ctx, &products[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Category != nil || req.Description != nil {
		name := product.Name
		category := product.Category
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Category != nil {
			category = *req.Category
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, category, description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		if err := product.ChangePrice(valueobject.NewMoney(*req.Price)); err != nil {
			return nil, err
		}
	}

	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}

	s.invalidateCache(ctx)

	response := s.toResponse(ctx, product)
	return &response, nil
}

// Delete removes a product. Deletion is refused while any invoice item
// references the product.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	referenced, err := s.invoiceRepo.ExistsForProduct(ctx, productID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.ErrReferenced
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	if product.HasImage() && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, product.ImageKey); err != nil {
			s.logger.Warn("deleting product image from storage",
				zap.String("storage_key", product.ImageKey),
				zap.Error(err),
			)
		}
	}

	s.invalidateCache(ctx)
	return nil
}

// InitiateMediaUpload returns a presigned URL for uploading a product image.
// The client uploads directly to object storage and then confirms the key
// with ConfirmMediaUpload.
func (s *ProductService) InitiateMediaUpload(ctx context.Context, productID uuid.UUID, req InitiateMediaUploadRequest) (*InitiateMediaUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	if !allowedImageContentTypes[strings.ToLower(req.ContentType)] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed for product media", req.ContentType))
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	storageKey := mediaStorageKey(productID, req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generating upload URL: %w", err)
	}

	return &InitiateMediaUploadResponse{
		UploadURL:  url,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmMediaUpload attaches an uploaded object to the product, replacing
// any previous image
func (s *ProductService) ConfirmMediaUpload(ctx context.Context, productID uuid.UUID, storageKey string) (*ProductResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("checking uploaded object: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "Uploaded object was not found in storage")
	}

	previousKey := product.ImageKey
	if err := product.AttachImage(storageKey); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}

	if previousKey != "" && previousKey != storageKey {
		if err := s.storage.DeleteObject(ctx, previousKey); err != nil {
			s.logger.Warn("deleting replaced product image",
				zap.String("storage_key", previousKey),
				zap.Error(err),
			)
		}
	}

	s.invalidateCache(ctx)

	response := s.toResponse(ctx, product)
	return &response, nil
}

// toResponse builds the representation, resolving a download URL when an
// image is attached
func (s *ProductService) toResponse(ctx context.Context, product *catalog.Product) ProductResponse {
	response := ToProductResponse(product)
	if product.HasImage() && s.storage != nil {
		url, _, err := s.storage.GenerateDownloadURL(ctx, product.ImageKey, s.config.DownloadURLExpiry)
		if err != nil {
			s.logger.Warn("generating product image URL",
				zap.String("product_id", product.ID.String()),
				zap.Error(err),
			)
		} else {
			response.ImageURL = url
		}
	}
	return response
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidating catalog cache", zap.Error(err))
	}
}

// mediaStorageKey builds a collision-free object key under the product's
// prefix, keeping the original file extension
func mediaStorageKey(productID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), ext)
}
