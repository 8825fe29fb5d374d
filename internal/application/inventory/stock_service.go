// Package inventory contains the application services for warehouses and
// stock keeping.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
	"github.com/Yousefaborizk/moonstar/internal/domain/inventory"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
)

// StockService handles warehouse and stock-keeping operations
type StockService struct {
	warehouseRepo inventory.WarehouseRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	warehouseRepo inventory.WarehouseRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// CreateWarehouse creates a new warehouse. Names are unique.
func (s *StockService) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	if _, err := s.warehouseRepo.FindByName(ctx, req.Name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this name already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	warehouse, err := inventory.NewWarehouse(req.Name, req.Location)
	if err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("saving warehouse: %w", err)
	}

	return s.toResponse(ctx, warehouse)
}

// GetWarehouse retrieves a warehouse with its valued stock rows
func (s *StockService) GetWarehouse(ctx context.Context, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, warehouse)
}

// ListWarehouses retrieves warehouses matching the filter with pagination
func (s *StockService) ListWarehouses(ctx context.Context, filter WarehouseListFilter) (*shared.Paginated[WarehouseListResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := inventory.WarehouseFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Search: filter.Search,
	}

	warehouses, err := s.warehouseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.warehouseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]WarehouseListResponse, 0, len(warehouses))
	for i := range warehouses {
		items = append(items, ToWarehouseListResponse(&warehouses[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateWarehouse updates the warehouse details
func (s *StockService) UpdateWarehouse(ctx context.Context, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	if req.Name != warehouse.Name {
		if _, err := s.warehouseRepo.FindByName(ctx, req.Name); err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this name already exists")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	if err := warehouse.Update(req.Name, req.Location); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("saving warehouse: %w", err)
	}

	return s.toResponse(ctx, warehouse)
}

// DeleteWarehouse removes a warehouse and its stock rows
func (s *StockService) DeleteWarehouse(ctx context.Context, warehouseID uuid.UUID) error {
	return s.warehouseRepo.Delete(ctx, warehouseID)
}

// AddStock records an intake of a product into the warehouse. An intake for
// a product already held accumulates onto the existing row.
func (s *StockService) AddStock(ctx context.Context, warehouseID uuid.UUID, req StockIntakeRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
		}
		return nil, err
	}

	if _, err := warehouse.AddStock(product.ID, product.Name, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("saving warehouse: %w", err)
	}

	s.logger.Info("stock intake",
		zap.String("warehouse_id", warehouseID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", req.Quantity),
	)

	return s.toResponse(ctx, warehouse)
}

// SetStock overwrites the held quantity for a product in the warehouse
func (s *StockService) SetStock(ctx context.Context, warehouseID, productID uuid.UUID, req SetStockRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
		}
		return nil, err
	}

	if _, err := warehouse.SetStock(product.ID, product.Name, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("saving warehouse: %w", err)
	}

	return s.toResponse(ctx, warehouse)
}

// RemoveStock deletes a product's stock row from the warehouse
func (s *StockService) RemoveStock(ctx context.Context, warehouseID, productID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	if err := warehouse.RemoveStock(productID); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("saving warehouse: %w", err)
	}

	return s.toResponse(ctx, warehouse)
}

// ProductTotalQuantity sums the product's quantity across all warehouses
func (s *StockService) ProductTotalQuantity(ctx context.Context, productID uuid.UUID) (int, error) {
	return s.warehouseRepo.TotalStockForProduct(ctx, productID)
}

// toResponse values the stock rows at current catalog prices. A product
// missing from the catalog is still listed with a zero value.
func (s *StockService) toResponse(ctx context.Context, warehouse *inventory.Warehouse) (*WarehouseResponse, error) {
	prices := make(map[uuid.UUID]decimal.Decimal)
	if len(warehouse.Stocks) > 0 {
		ids := make([]uuid.UUID, 0, len(warehouse.Stocks))
		for i := range warehouse.Stocks {
			ids = append(ids, warehouse.Stocks[i].ProductID)
		}
		products, err := s.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("loading products: %w", err)
		}
		for i := range products {
			prices[products[i].ID] = products[i].Price
		}
	}

	totalValue := decimal.Zero
	stocks := make([]StockResponse, 0, len(warehouse.Stocks))
	for i := range warehouse.Stocks {
		stock := &warehouse.Stocks[i]
		price := prices[stock.ProductID]
		value := price.Mul(decimal.NewFromInt(int64(stock.Quantity)))
		totalValue = totalValue.Add(value)
		stocks = append(stocks, StockResponse{
			ProductID:   stock.ProductID,
			ProductName: stock.ProductName,
			Quantity:    stock.Quantity,
			UnitPrice:   price,
			TotalValue:  value,
		})
	}

	return &WarehouseResponse{
		ID:            warehouse.ID,
		Name:          warehouse.Name,
		Location:      warehouse.Location,
		TotalQuantity: warehouse.TotalQuantity(),
		TotalValue:    totalValue,
		Stocks:        stocks,
		CreatedAt:     warehouse.CreatedAt,
		UpdatedAt:     warehouse.UpdatedAt,
	}, nil
}
