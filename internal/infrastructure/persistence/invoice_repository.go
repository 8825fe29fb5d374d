package persistence

import (
	"context"
	"errors"

	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads an invoice with its items and installments
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Installments").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByInstallmentID loads the invoice owning the given installment
func (r *GormInvoiceRepository) FindByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*billing.Invoice, error) {
	var installment billing.Installment
	if err := r.db.WithContext(ctx).
		First(&installment, "id = ?", installmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, installment.InvoiceID)
}

// FindAll lists invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}), filter).
		Preload("Items").
		Preload("Installments")

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	var count int64
	filter.Page = 0
	filter.PageSize = 0
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Invoice{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the aggregate, replacing items and installments with the
// in-memory state, all in one transaction
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Installments").Save(invoice).Error; err != nil {
			return err
		}
		return r.replaceChildren(tx, invoice)
	})
}

// SaveWithLock persists the aggregate under an optimistic version check. The
// version column is only advanced here, so a concurrent writer that loaded
// the same version loses with shared.ErrConcurrencyConflict.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	loadedVersion := invoice.Version

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&billing.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, loadedVersion).
			Updates(map[string]interface{}{
				"client_id":        invoice.ClientID,
				"client_name":      invoice.ClientName,
				"assignee_id":      invoice.AssigneeID,
				"date_due":         invoice.DateDue,
				"tax_percentage":   invoice.TaxPercentage,
				"discount_amount":  invoice.DiscountAmount,
				"status":           invoice.Status,
				"notes":            invoice.Notes,
				"amount_paid":      invoice.AmountPaid,
				"installment_plan": invoice.InstallmentPlan,
				"version":          loadedVersion + 1,
				"updated_at":       invoice.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		invoice.Version = loadedVersion + 1
		return r.replaceChildren(tx, invoice)
	})
}

// replaceChildren swaps the stored items and installments for the aggregate's
// in-memory sets
func (r *GormInvoiceRepository) replaceChildren(tx *gorm.DB, invoice *billing.Invoice) error {
	if err := tx.Delete(&billing.InvoiceItem{}, "invoice_id = ?", invoice.ID).Error; err != nil {
		return err
	}
	if len(invoice.Items) > 0 {
		if err := tx.Create(&invoice.Items).Error; err != nil {
			return err
		}
	}

	if err := tx.Delete(&billing.Installment{}, "invoice_id = ?", invoice.ID).Error; err != nil {
		return err
	}
	if len(invoice.Installments) > 0 {
		if err := tx.Create(&invoice.Installments).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an invoice and its children
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&billing.InvoiceItem{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&billing.Installment{}, "invoice_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.Invoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsForProduct reports whether any invoice item references the product
func (r *GormInvoiceRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.InvoiceItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsForClient reports whether any invoice references the client
func (r *GormInvoiceRepository) ExistsForClient(ctx context.Context, clientID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	query = query.Order(orderClause(filter.Filter, InvoiceSortFields, "number", "DESC"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
