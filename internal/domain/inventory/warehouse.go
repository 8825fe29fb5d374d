package inventory

import (
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
)

// Warehouse represents a physical storage location
// It is the aggregate root for stock-keeping operations
type Warehouse struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Location string `gorm:"type:varchar(200)"`
	Stocks   []WarehouseStock `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(name, location string) (*Warehouse, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 100 characters")
	}

	warehouse := &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Location:          location,
	}

	warehouse.AddDomainEvent(NewWarehouseCreatedEvent(warehouse))

	return warehouse, nil
}

// Update updates the warehouse details
func (w *Warehouse) Update(name, location string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}

	w.Name = name
	w.Location = location
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// TotalQuantity sums the stock quantity across all products
func (w *Warehouse) TotalQuantity() int {
	total := 0
	for i := range w.Stocks {
		total += w.Stocks[i].Quantity
	}
	return total
}
