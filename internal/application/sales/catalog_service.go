// Package sales contains the public, unauthenticated catalog surface.
package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/infrastructure/cache"
)

// defaultCacheTTL bounds how stale a public catalog read can be
const defaultCacheTTL = 5 * time.Minute

// ImageURLResolver turns a stored media key into a fetchable URL
type ImageURLResolver interface {
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// CatalogService serves the public product catalog. Reads go through the
// product cache; only active products are ever returned. Billing data never
// flows through here.
type CatalogService struct {
	productRepo catalog.ProductRepository
	cache       cache.ProductCache
	resolver    ImageURLResolver
	ttl         time.Duration
	logger      *zap.Logger
}

// NewCatalogService creates a new CatalogService. A zero ttl falls back to
// the default.
func NewCatalogService(
	productRepo catalog.ProductRepository,
	productCache cache.ProductCache,
	resolver ImageURLResolver,
	ttl time.Duration,
	logger *zap.Logger,
) *CatalogService {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		productRepo: productRepo,
		cache:       productCache,
		resolver:    resolver,
		ttl:         ttl,
		logger:      logger,
	}
}

// ListProducts returns the active products, optionally scoped to a category
func (s *CatalogService) ListProducts(ctx context.Context, category *catalog.ProductCategory) ([]PublicProductResponse, error) {
	if category != nil && !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}

	products, err := s.cachedList(ctx, category)
	if err != nil {
		return nil, err
	}

	responses := make([]PublicProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, s.toResponse(ctx, &products[i]))
	}
	return responses, nil
}

// GetProduct returns one active product. Inactive and unknown products are
// indistinguishable to the public surface.
func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*PublicProductResponse, error) {
	product, err := s.cachedProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.ErrNotFound
	}

	response := s.toResponse(ctx, product)
	return &response, nil
}

// Categories returns every category with its display label
func (s *CatalogService) Categories() []CategoryResponse {
	categories := catalog.AllCategories()
	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, CategoryResponse{
			Value:   c,
			Display: c.DisplayName(),
		})
	}
	return responses
}

func (s *CatalogService) cachedList(ctx context.Context, category *catalog.ProductCategory) ([]catalog.Product, error) {
	key := cache.ListKey(category)
	if s.cache != nil {
		products, err := s.cache.GetList(ctx, key)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	products, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{
		Filter:     shared.Filter{OrderBy: "name", OrderDir: "asc"},
		Category:   category,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, key, products, s.ttl); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

func (s *CatalogService) cachedProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	if s.cache != nil {
		product, err := s.cache.GetProduct(ctx, productID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && product.Active {
		if err := s.cache.SetProduct(ctx, product, s.ttl); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return product, nil
}

func (s *CatalogService) toResponse(ctx context.Context, product *catalog.Product) PublicProductResponse {
	response := PublicProductResponse{
		ID:              product.ID,
		Name:            product.Name,
		Category:        product.Category,
		CategoryDisplay: product.Category.DisplayName(),
		Price:           product.Price,
		Description:     product.Description,
	}
	if product.HasImage() && s.resolver != nil {
		url, _, err := s.resolver.GenerateDownloadURL(ctx, product.ImageKey, s.ttl)
		if err == nil {
			response.ImageURL = url
		}
	}
	return response
}
