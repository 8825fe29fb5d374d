package inventory

import (
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseStock records how many units of one product a warehouse holds.
// There is at most one row per (warehouse, product) pair; repeated intakes
// accumulate onto the existing row instead of creating duplicates.
type WarehouseStock struct {
	shared.BaseEntity
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_product"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_product"`
	ProductName string    `gorm:"type:varchar(200);not null"`
	Quantity    int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (WarehouseStock) TableName() string {
	return "warehouse_stocks"
}

// NewWarehouseStock creates a stock row for a product not yet held
func NewWarehouseStock(warehouseID, productID uuid.UUID, productName string, quantity int) (*WarehouseStock, error) {
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}

	return &WarehouseStock{
		BaseEntity:  shared.NewBaseEntity(),
		WarehouseID: warehouseID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
	}, nil
}

// AddStock records an intake of the product into the warehouse. If the
// product is already held its quantity accumulates; otherwise a new stock
// row is created.
func (w *Warehouse) AddStock(productID uuid.UUID, productName string, quantity int) (*WarehouseStock, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Intake quantity must be greater than zero")
	}

	for i := range w.Stocks {
		if w.Stocks[i].ProductID == productID {
			w.Stocks[i].Quantity += quantity
			w.Stocks[i].UpdatedAt = time.Now()
			w.UpdatedAt = time.Now()
			w.AddDomainEvent(NewStockAdjustedEvent(w, &w.Stocks[i]))
			return &w.Stocks[i], nil
		}
	}

	stock, err := NewWarehouseStock(w.ID, productID, productName, quantity)
	if err != nil {
		return nil, err
	}
	w.Stocks = append(w.Stocks, *stock)
	w.UpdatedAt = time.Now()
	w.AddDomainEvent(NewStockAdjustedEvent(w, stock))
	return &w.Stocks[len(w.Stocks)-1], nil
}

// SetStock overwrites the held quantity for a product
func (w *Warehouse) SetStock(productID uuid.UUID, productName string, quantity int) (*WarehouseStock, error) {
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}

	for i := range w.Stocks {
		if w.Stocks[i].ProductID == productID {
			w.Stocks[i].Quantity = quantity
			w.Stocks[i].UpdatedAt = time.Now()
			w.UpdatedAt = time.Now()
			w.AddDomainEvent(NewStockAdjustedEvent(w, &w.Stocks[i]))
			return &w.Stocks[i], nil
		}
	}

	stock, err := NewWarehouseStock(w.ID, productID, productName, quantity)
	if err != nil {
		return nil, err
	}
	w.Stocks = append(w.Stocks, *stock)
	w.UpdatedAt = time.Now()
	w.AddDomainEvent(NewStockAdjustedEvent(w, stock))
	return &w.Stocks[len(w.Stocks)-1], nil
}

// RemoveStock deletes the stock row for a product
func (w *Warehouse) RemoveStock(productID uuid.UUID) error {
	for i := range w.Stocks {
		if w.Stocks[i].ProductID == productID {
			w.Stocks = append(w.Stocks[:i], w.Stocks[i+1:]...)
			w.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// StockFor returns the stock row for a product, or nil if not held
func (w *Warehouse) StockFor(productID uuid.UUID) *WarehouseStock {
	for i := range w.Stocks {
		if w.Stocks[i].ProductID == productID {
			return &w.Stocks[i]
		}
	}
	return nil
}
