package inventory

import (
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeWarehouse = "Warehouse"

// Event type constants
const (
	EventTypeWarehouseCreated = "WarehouseCreated"
	EventTypeStockAdjusted    = "StockAdjusted"
)

// WarehouseCreatedEvent is published when a new warehouse is created
type WarehouseCreatedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Name        string    `json:"name"`
}

// NewWarehouseCreatedEvent creates a new WarehouseCreatedEvent
func NewWarehouseCreatedEvent(w *Warehouse) *WarehouseCreatedEvent {
	return &WarehouseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseCreated, AggregateTypeWarehouse, w.ID),
		WarehouseID:     w.ID,
		Name:            w.Name,
	}
}

// StockAdjustedEvent is published whenever a stock row changes
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int       `json:"quantity"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(w *Warehouse, stock *WarehouseStock) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeWarehouse, w.ID),
		WarehouseID:     w.ID,
		ProductID:       stock.ProductID,
		Quantity:        stock.Quantity,
	}
}
