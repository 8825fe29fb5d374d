package persistence

import (
	"context"
	"errors"

	"github.com/Yousefaborizk/moonstar/internal/domain/inventory"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements inventory.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID loads a warehouse with its stock rows
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Warehouse, error) {
	var warehouse inventory.Warehouse
	if err := r.db.WithContext(ctx).
		Preload("Stocks").
		First(&warehouse, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// FindByName finds a warehouse by its unique name
func (r *GormWarehouseRepository) FindByName(ctx context.Context, name string) (*inventory.Warehouse, error) {
	var warehouse inventory.Warehouse
	if err := r.db.WithContext(ctx).
		Preload("Stocks").
		First(&warehouse, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// FindAll lists warehouses matching the filter
func (r *GormWarehouseRepository) FindAll(ctx context.Context, filter inventory.WarehouseFilter) ([]inventory.Warehouse, error) {
	var warehouses []inventory.Warehouse
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Warehouse{}), filter).
		Preload("Stocks")
	if err := query.Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// Count counts warehouses matching the filter
func (r *GormWarehouseRepository) Count(ctx context.Context, filter inventory.WarehouseFilter) (int64, error) {
	var count int64
	filter.Page = 0
	filter.PageSize = 0
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Warehouse{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the aggregate, replacing stock rows with the in-memory set
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *inventory.Warehouse) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Stocks").Save(warehouse).Error; err != nil {
			return err
		}
		if err := tx.Delete(&inventory.WarehouseStock{}, "warehouse_id = ?", warehouse.ID).Error; err != nil {
			return err
		}
		if len(warehouse.Stocks) > 0 {
			if err := tx.Create(&warehouse.Stocks).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a warehouse and its stock rows
func (r *GormWarehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&inventory.WarehouseStock{}, "warehouse_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&inventory.Warehouse{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// TotalStockForProduct sums the product's quantity across all warehouses
func (r *GormWarehouseRepository) TotalStockForProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&inventory.WarehouseStock{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *GormWarehouseRepository) applyFilter(query *gorm.DB, filter inventory.WarehouseFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	query = query.Order(orderClause(filter.Filter, WarehouseSortFields, "name", "ASC"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
