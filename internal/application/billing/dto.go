package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
)

// InvoiceItemRequest is one product line on an invoice being created or
// updated. When UnitPrice is absent the catalog price is snapshotted at that
// instant; either way the line keeps its price forever.
type InvoiceItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// InstallmentRequest is one scheduled partial payment
type InstallmentRequest struct {
	DueDate time.Time       `json:"due_date" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Notes   string          `json:"notes"`
}

// CreateInvoiceRequest carries the data for creating an invoice. Status
// defaults to draft; creating directly as paid or installment applies that
// transition's payment side effects before the first save.
type CreateInvoiceRequest struct {
	ClientID       uuid.UUID              `json:"client_id" binding:"required"`
	AssigneeID     *uuid.UUID             `json:"assignee_id"`
	DateDue        time.Time              `json:"date_due" binding:"required"`
	TaxPercentage  decimal.Decimal        `json:"tax_percentage"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	Notes          string                 `json:"notes"`
	Status         *billing.InvoiceStatus `json:"status"`
	Items          []InvoiceItemRequest   `json:"items"`
	Installments   []InstallmentRequest   `json:"installments"`
}

// UpdateInvoiceRequest carries a partial update. Nil fields are left
// untouched; a non-nil Items or Installments slice replaces the whole set.
type UpdateInvoiceRequest struct {
	AssigneeID     *uuid.UUID             `json:"assignee_id"`
	DateDue        *time.Time             `json:"date_due"`
	TaxPercentage  *decimal.Decimal       `json:"tax_percentage"`
	DiscountAmount *decimal.Decimal       `json:"discount_amount"`
	Notes          *string                `json:"notes"`
	Status         *billing.InvoiceStatus `json:"status"`
	Items          []InvoiceItemRequest   `json:"items"`
	Installments   []InstallmentRequest   `json:"installments"`
}

// InvoiceListFilter mirrors the repository filter for the HTTP layer
type InvoiceListFilter struct {
	Page        int
	PageSize    int
	OrderBy     string
	OrderDir    string
	Status      *billing.InvoiceStatus
	ClientID    *uuid.UUID
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// InvoiceItemResponse is a line item with its derived total
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InstallmentResponse is a scheduled installment with its payment state
type InstallmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	DueDate     time.Time       `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"is_paid"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// InvoiceTotals carries the derived monetary figures of an invoice
type InvoiceTotals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	BalanceDue      decimal.Decimal `json:"balance_due"`
	PaymentProgress decimal.Decimal `json:"payment_progress"`
}

// InvoiceResponse is the full invoice representation
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	Number          int64                 `json:"number"`
	ClientID        uuid.UUID             `json:"client_id"`
	ClientName      string                `json:"client_name"`
	AssigneeID      *uuid.UUID            `json:"assignee_id,omitempty"`
	DateDue         time.Time             `json:"date_due"`
	TaxPercentage   decimal.Decimal       `json:"tax_percentage"`
	DiscountAmount  decimal.Decimal       `json:"discount_amount"`
	Status          billing.InvoiceStatus `json:"status"`
	IsInstallment   bool                  `json:"is_installment"`
	Notes           string                `json:"notes,omitempty"`
	InstallmentPlan string                `json:"installment_plan,omitempty"`
	Totals          InvoiceTotals         `json:"totals"`
	Items           []InvoiceItemResponse `json:"items"`
	Installments    []InstallmentResponse `json:"installments"`
	Version         int                   `json:"version"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// InvoiceListResponse is the compact representation used by list endpoints
type InvoiceListResponse struct {
	ID              uuid.UUID             `json:"id"`
	Number          int64                 `json:"number"`
	ClientID        uuid.UUID             `json:"client_id"`
	ClientName      string                `json:"client_name"`
	DateDue         time.Time             `json:"date_due"`
	Status          billing.InvoiceStatus `json:"status"`
	Total           decimal.Decimal       `json:"total"`
	AmountPaid      decimal.Decimal       `json:"amount_paid"`
	PaymentProgress decimal.Decimal       `json:"payment_progress"`
	Overdue         bool                  `json:"overdue"`
	CreatedAt       time.Time             `json:"created_at"`
}

// InvoiceSummary aggregates the invoices matching a filter
type InvoiceSummary struct {
	Count        int64           `json:"count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	OverdueCount int64           `json:"overdue_count"`
}

// ToInvoiceTotals derives the monetary figures from the aggregate
func ToInvoiceTotals(inv *billing.Invoice) InvoiceTotals {
	return InvoiceTotals{
		Subtotal:        inv.Subtotal().Round2().Amount(),
		TaxAmount:       inv.TaxAmount().Amount(),
		Total:           inv.Total().Amount(),
		AmountPaid:      inv.AmountPaid,
		BalanceDue:      inv.BalanceDue().Amount(),
		PaymentProgress: inv.PaymentProgress(),
	}
}

// ToInvoiceResponse converts an invoice aggregate to its full representation
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items = append(items, InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal().Amount(),
		})
	}

	installments := make([]InstallmentResponse, 0, len(inv.Installments))
	for i := range inv.Installments {
		installment := &inv.Installments[i]
		installments = append(installments, InstallmentResponse{
			ID:          installment.ID,
			DueDate:     installment.DueDate,
			Amount:      installment.Amount,
			IsPaid:      installment.IsPaid,
			PaymentDate: installment.PaymentDate,
			Notes:       installment.Notes,
		})
	}

	return InvoiceResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		ClientID:        inv.ClientID,
		ClientName:      inv.ClientName,
		AssigneeID:      inv.AssigneeID,
		DateDue:         inv.DateDue,
		TaxPercentage:   inv.TaxPercentage,
		DiscountAmount:  inv.DiscountAmount,
		Status:          inv.Status,
		IsInstallment:   inv.Status.IsInstallment(),
		Notes:           inv.Notes,
		InstallmentPlan: inv.InstallmentPlan,
		Totals:          ToInvoiceTotals(inv),
		Items:           items,
		Installments:    installments,
		Version:         inv.Version,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

// ToInvoiceListResponse converts an invoice to its compact list representation
func ToInvoiceListResponse(inv *billing.Invoice, today time.Time) InvoiceListResponse {
	return InvoiceListResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		ClientID:        inv.ClientID,
		ClientName:      inv.ClientName,
		DateDue:         inv.DateDue,
		Status:          inv.Status,
		Total:           inv.Total().Amount(),
		AmountPaid:      inv.AmountPaid,
		PaymentProgress: inv.PaymentProgress(),
		Overdue:         inv.IsOverdue(today),
		CreatedAt:       inv.CreatedAt,
	}
}
