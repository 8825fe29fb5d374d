package billing

import (
	"context"
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	Status      *InvoiceStatus // Filter by status
	ClientID    *uuid.UUID     // Filter by client
	CreatedFrom *time.Time     // Filter by creation date range start
	CreatedTo   *time.Time     // Filter by creation date range end
}

// InvoiceRepository defines the interface for invoice persistence.
// Implementations persist the whole aggregate (invoice, items, installments)
// in one transaction so the roll-up of an installment payment into the
// invoice can never be observed half-applied.
type InvoiceRepository interface {
	// FindByID loads an invoice with its items and installments
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByInstallmentID loads the invoice owning the given installment
	FindByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*Invoice, error)

	// FindAll lists invoices with filtering and pagination
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)

	// Save creates or updates the aggregate, replacing items and
	// installments with the in-memory state
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with an optimistic version check; a stale version
	// fails with shared.ErrConcurrencyConflict
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice and its children
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsForProduct reports whether any invoice item references the product
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)

	// ExistsForClient reports whether any invoice references the client
	ExistsForClient(ctx context.Context, clientID uuid.UUID) (bool, error)
}
