package billing

import (
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItem is a product line on an invoice. UnitPrice is a snapshot of the
// product price at the time of invoicing and is never refreshed, even when the
// catalog price changes later.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_product,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_product,priority:2"`
	ProductName string          `gorm:"type:varchar(255);not null"` // Denormalized for display
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new invoice line item
func NewInvoiceItem(invoiceID, productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int) (*InvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice item requires a product")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	if !unitPrice.IsPositive() {
		return nil, shared.NewValidationError("Unit price must be positive")
	}

	now := time.Now()
	return &InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice.Amount(),
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// LineTotal returns unit price multiplied by quantity
func (i *InvoiceItem) LineTotal() valueobject.Money {
	return valueobject.NewMoney(i.UnitPrice).MultiplyByInt(int64(i.Quantity))
}

// UnitPriceMoney returns the snapshot price as a Money value object
func (i *InvoiceItem) UnitPriceMoney() valueobject.Money {
	return valueobject.NewMoney(i.UnitPrice)
}
