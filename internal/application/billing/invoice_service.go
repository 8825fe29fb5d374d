// Package billing contains the application services for the invoice
// financial lifecycle.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
	"github.com/Yousefaborizk/moonstar/internal/domain/identity"
	"github.com/Yousefaborizk/moonstar/internal/domain/partner"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
)

// InvoiceCreationPolicy decides which users may create invoices.
// This decouples InvoiceService from the concrete allow-list implementation.
type InvoiceCreationPolicy interface {
	CanCreateInvoice(user *identity.User) bool
}

// InvoiceService orchestrates the invoice financial lifecycle. Every
// mutation of an existing invoice goes through SaveWithLock so concurrent
// writers cannot double-apply payment amounts.
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	productRepo catalog.ProductRepository
	clientRepo  partner.ClientRepository
	policy      InvoiceCreationPolicy
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	productRepo catalog.ProductRepository,
	clientRepo partner.ClientRepository,
	policy InvoiceCreationPolicy,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		policy:      policy,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Create creates a new invoice for the acting user. Creation is restricted
// by the injected policy; line prices without an explicit unit price are
// snapshotted from the catalog. A requested initial status is applied with
// its payment side effects before the first save.
func (s *InvoiceService) Create(ctx context.Context, actor *identity.User, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if s.policy == nil || !s.policy.CanCreateInvoice(actor) {
		return nil, shared.ErrForbidden
	}

	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client not found")
		}
		return nil, err
	}

	invoice, err := billing.NewInvoice(
		client.ID,
		client.Name,
		req.AssigneeID,
		req.DateDue,
		req.TaxPercentage,
		req.DiscountAmount,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if len(req.Items) > 0 {
		if err := s.addItems(ctx, invoice, req.Items, nil); err != nil {
			return nil, err
		}
	}

	if req.Status != nil && *req.Status != billing.StatusDraft {
		if err := invoice.ChangeStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	// An installment schedule is only meaningful on an installment invoice.
	if invoice.Status == billing.StatusInstallment {
		for _, ir := range req.Installments {
			if _, err := invoice.AddInstallment(ir.DueDate, valueobject.NewMoney(ir.Amount), ir.Notes); err != nil {
				return nil, err
			}
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("saving invoice: %w", err)
	}

	s.publishEvents(ctx, invoice)
	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("client_id", client.ID.String()),
		zap.String("created_by", actor.Username),
	)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Update applies a partial update to an invoice. A cancelled invoice
// refuses every edit. When Items are replaced, products already on the
// invoice keep their original price snapshot unless the request carries an
// explicit unit price.
func (s *InvoiceService) Update(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.CanEdit() {
		return nil, shared.ErrInvoiceLocked
	}

	if req.AssigneeID != nil {
		invoice.AssigneeID = req.AssigneeID
	}
	if req.DateDue != nil {
		invoice.DateDue = *req.DateDue
	}
	if req.TaxPercentage != nil {
		if req.TaxPercentage.IsNegative() {
			return nil, shared.NewValidationError("Tax percentage cannot be negative")
		}
		invoice.TaxPercentage = *req.TaxPercentage
	}
	if req.DiscountAmount != nil {
		if req.DiscountAmount.IsNegative() {
			return nil, shared.NewValidationError("Discount amount cannot be negative")
		}
		invoice.DiscountAmount = *req.DiscountAmount
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}

	if req.Items != nil {
		snapshots := make(map[uuid.UUID]decimal.Decimal, len(invoice.Items))
		for i := range invoice.Items {
			snapshots[invoice.Items[i].ProductID] = invoice.Items[i].UnitPrice
		}
		invoice.ClearItems()
		if err := s.addItems(ctx, invoice, req.Items, snapshots); err != nil {
			return nil, err
		}
	}

	if req.Installments != nil {
		invoice.ClearInstallments()
		for _, ir := range req.Installments {
			if _, err := invoice.AddInstallment(ir.DueDate, valueobject.NewMoney(ir.Amount), ir.Notes); err != nil {
				return nil, err
			}
		}
	}

	if req.Status != nil && *req.Status != invoice.Status {
		if err := invoice.ChangeStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	// Edits to a paid invoice re-derive AmountPaid from the new total.
	if err := invoice.SyncPaidAmount(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ChangeStatus moves the invoice to a new status with its payment side
// effects
func (s *InvoiceService) ChangeStatus(ctx context.Context, invoiceID uuid.UUID, status billing.InvoiceStatus) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.ChangeStatus(status); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkPaid records a full payment of the invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.ChangeStatus(ctx, invoiceID, billing.StatusPaid)
}

// MarkInstallmentPaid records a payment on one installment and rolls it up
// into the owning invoice. The installment stamp, the accumulated amount,
// the possible flip to paid and the rebuilt plan text are persisted as one
// aggregate save under the version check.
func (s *InvoiceService) MarkInstallmentPaid(ctx context.Context, installmentID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByInstallmentID(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	if err := invoice.MarkInstallmentPaid(installmentID, time.Now()); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	s.logger.Info("installment paid",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("installment_id", installmentID.String()),
		zap.String("status", string(invoice.Status)),
	)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// AddInstallment appends a scheduled installment to the invoice
func (s *InvoiceService) AddInstallment(ctx context.Context, invoiceID uuid.UUID, req InstallmentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.CanEdit() {
		return nil, shared.ErrInvoiceLocked
	}

	if _, err := invoice.AddInstallment(req.DueDate, valueobject.NewMoney(req.Amount), req.Notes); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves a full invoice
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Totals returns the derived monetary figures of an invoice
func (s *InvoiceService) Totals(ctx context.Context, invoiceID uuid.UUID) (*InvoiceTotals, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	totals := ToInvoiceTotals(invoice)
	return &totals, nil
}

// List retrieves invoices matching the filter with pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (*shared.Paginated[InvoiceListResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := toDomainFilter(filter)

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	items := make([]InvoiceListResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceListResponse(&invoices[i], today))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Summary aggregates the invoices matching the filter: total billed amount,
// amount collected, and how many are overdue. Pagination in the filter is
// ignored, the summary always covers the whole matching set.
func (s *InvoiceService) Summary(ctx context.Context, filter InvoiceListFilter) (*InvoiceSummary, error) {
	filter.Page = 0
	filter.PageSize = 0

	invoices, err := s.invoiceRepo.FindAll(ctx, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}

	today := time.Now()
	summary := InvoiceSummary{
		Count:       int64(len(invoices)),
		TotalAmount: decimal.Zero,
		PaidAmount:  decimal.Zero,
	}
	for i := range invoices {
		inv := &invoices[i]
		summary.TotalAmount = summary.TotalAmount.Add(inv.Total().Amount())
		summary.PaidAmount = summary.PaidAmount.Add(inv.AmountPaid)
		if inv.IsOverdue(today) {
			summary.OverdueCount++
		}
	}

	return &summary, nil
}

// Delete removes an invoice and its children
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	return s.invoiceRepo.Delete(ctx, invoiceID)
}

// addItems resolves the requested products and appends them as line items.
// snapshots carries previously stored unit prices keyed by product; a
// product found there keeps its old price instead of the current catalog
// price.
func (s *InvoiceService) addItems(ctx context.Context, invoice *billing.Invoice, items []InvoiceItemRequest, snapshots map[uuid.UUID]decimal.Decimal) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("loading products: %w", err)
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return shared.NewDomainError("INVALID_PRODUCT", "Product not found")
		}

		price := product.PriceMoney()
		if snapshots != nil {
			if kept, ok := snapshots[item.ProductID]; ok {
				price = valueobject.NewMoney(kept)
			}
		}
		if item.UnitPrice != nil {
			price = valueobject.NewMoney(*item.UnitPrice)
		}

		if _, err := invoice.AddItem(product.ID, product.Name, price, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// publishEvents flushes the aggregate's pending domain events. Publish
// failures are logged, they never fail the operation.
func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.eventBus == nil {
		return
	}
	events := invoice.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("publishing invoice events", zap.Error(err))
	}
	invoice.ClearDomainEvents()
}

func toDomainFilter(filter InvoiceListFilter) billing.InvoiceFilter {
	return billing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Status:      filter.Status,
		ClientID:    filter.ClientID,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
	}
}
