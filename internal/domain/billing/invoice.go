package billing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice.
// It is the single source of truth; installment bookkeeping flags are
// derived from it, never stored separately.
type InvoiceStatus string

const (
	StatusDraft       InvoiceStatus = "draft"
	StatusSent        InvoiceStatus = "sent"
	StatusPaid        InvoiceStatus = "paid"
	StatusInstallment InvoiceStatus = "installment"
	StatusCancelled   InvoiceStatus = "cancelled"
)

// IsValid returns true for a known status value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusInstallment, StatusCancelled:
		return true
	}
	return false
}

// IsInstallment reports whether the invoice is paid in installments
func (s InvoiceStatus) IsInstallment() bool {
	return s == StatusInstallment
}

// Invoice is the aggregate root for the financial lifecycle: it derives its
// monetary totals from its items and tracks payment state across direct and
// installment payments.
type Invoice struct {
	shared.BaseAggregateRoot
	Number          int64           `gorm:"autoIncrement;uniqueIndex"` // Human-facing invoice number
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientName      string          `gorm:"type:varchar(255);not null"` // Denormalized for display
	AssigneeID      *uuid.UUID      `gorm:"type:uuid;index"`
	DateDue         time.Time       `gorm:"type:date;not null"`
	TaxPercentage   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Status          InvoiceStatus   `gorm:"type:varchar(12);not null;default:'draft';index"`
	Notes           string          `gorm:"type:text"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	InstallmentPlan string          `gorm:"type:text"` // Cached projection, rebuilt from Installments
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID"`
	Installments    []Installment   `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice in draft status
func NewInvoice(clientID uuid.UUID, clientName string, assigneeID *uuid.UUID, dateDue time.Time, taxPercentage, discountAmount decimal.Decimal, notes string) (*Invoice, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice requires a client")
	}
	if dateDue.IsZero() {
		return nil, shared.NewValidationError("Invoice due date is required")
	}
	if taxPercentage.IsNegative() {
		return nil, shared.NewValidationError("Tax percentage cannot be negative")
	}
	if discountAmount.IsNegative() {
		return nil, shared.NewValidationError("Discount amount cannot be negative")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		ClientName:        clientName,
		AssigneeID:        assigneeID,
		DateDue:           dateDue,
		TaxPercentage:     taxPercentage,
		DiscountAmount:    discountAmount,
		Status:            StatusDraft,
		Notes:             notes,
		AmountPaid:        decimal.Zero,
		Items:             make([]InvoiceItem, 0),
		Installments:      make([]Installment, 0),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// CanEdit reports whether the invoice accepts further mutation.
// Cancelled is terminal for editing, not for record retention.
func (inv *Invoice) CanEdit() bool {
	return inv.Status != StatusCancelled
}

// IsOverdue reports whether the invoice is past due and still collectible
func (inv *Invoice) IsOverdue(today time.Time) bool {
	if inv.Status == StatusPaid || inv.Status == StatusCancelled {
		return false
	}
	return inv.DateDue.Before(today.Truncate(24 * time.Hour))
}

// AddItem appends a line item. At most one item per product is allowed on an
// invoice; a duplicate product fails with ErrDuplicateInvoiceItem.
func (inv *Invoice) AddItem(productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int) (*InvoiceItem, error) {
	for _, existing := range inv.Items {
		if existing.ProductID == productID {
			return nil, shared.ErrDuplicateInvoiceItem
		}
	}

	item, err := NewInvoiceItem(inv.ID, productID, productName, unitPrice, quantity)
	if err != nil {
		return nil, err
	}
	inv.Items = append(inv.Items, *item)
	inv.UpdatedAt = time.Now()
	return item, nil
}

// ClearItems removes all line items
func (inv *Invoice) ClearItems() {
	inv.Items = make([]InvoiceItem, 0)
	inv.UpdatedAt = time.Now()
}

// AddInstallment appends a scheduled installment and rebuilds the plan text
func (inv *Invoice) AddInstallment(dueDate time.Time, amount valueobject.Money, notes string) (*Installment, error) {
	installment, err := NewInstallment(inv.ID, dueDate, amount, notes)
	if err != nil {
		return nil, err
	}
	inv.Installments = append(inv.Installments, *installment)
	inv.RebuildInstallmentPlan()
	inv.UpdatedAt = time.Now()
	return installment, nil
}

// ClearInstallments removes all installments and the plan text
func (inv *Invoice) ClearInstallments() {
	inv.Installments = make([]Installment, 0)
	inv.InstallmentPlan = ""
	inv.UpdatedAt = time.Now()
}

// Subtotal is the sum of all line totals, zero when the invoice has no items
func (inv *Invoice) Subtotal() valueobject.Money {
	subtotal := valueobject.Zero()
	for i := range inv.Items {
		subtotal = subtotal.Add(inv.Items[i].LineTotal())
	}
	return subtotal
}

// TaxAmount derives the tax from the subtotal, rounded to 2 decimal places
func (inv *Invoice) TaxAmount() valueobject.Money {
	return inv.Subtotal().Percentage(inv.TaxPercentage).Round2()
}

// Total derives the final amount after tax and discount
func (inv *Invoice) Total() valueobject.Money {
	return inv.Subtotal().
		Add(inv.TaxAmount()).
		Subtract(valueobject.NewMoney(inv.DiscountAmount)).
		Round2()
}

// BalanceDue is the remaining amount owed
func (inv *Invoice) BalanceDue() valueobject.Money {
	return inv.Total().Subtract(valueobject.NewMoney(inv.AmountPaid)).Round2()
}

// AmountPaidMoney returns the accumulated paid amount as Money
func (inv *Invoice) AmountPaidMoney() valueobject.Money {
	return valueobject.NewMoney(inv.AmountPaid)
}

// PaymentProgress returns the paid percentage rounded to a whole number,
// zero when the total is zero
func (inv *Invoice) PaymentProgress() decimal.Decimal {
	total := inv.Total()
	if total.IsZero() {
		return decimal.Zero
	}
	return inv.AmountPaid.
		Div(total.Amount()).
		Mul(decimal.NewFromInt(100)).
		Round(0)
}

// ChangeStatus moves the invoice to a new status, applying the payment side
// effects atomically with the state change:
//
//   - to paid: requires at least one item, forces AmountPaid to the current
//     total
//   - to installment: resets AmountPaid to zero only when it already covers
//     the total, so the plan never starts overpaid
//   - leaving paid: resets AmountPaid to zero
//   - leaving installment: purges all installments and the plan text, and
//     resets AmountPaid unless the invoice is moving to paid
func (inv *Invoice) ChangeStatus(newStatus InvoiceStatus) error {
	if !newStatus.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Unknown invoice status %q", newStatus))
	}
	if inv.Status == StatusCancelled && newStatus != StatusCancelled {
		return shared.ErrInvoiceLocked
	}

	previous := inv.Status

	if previous == StatusPaid && newStatus != StatusPaid {
		inv.AmountPaid = decimal.Zero
	}

	switch newStatus {
	case StatusPaid:
		if len(inv.Items) == 0 {
			return shared.ErrEmptyInvoice
		}
		inv.AmountPaid = inv.Total().Amount()
	case StatusInstallment:
		if valueobject.NewMoney(inv.AmountPaid).GreaterThanOrEqual(inv.Total()) {
			inv.AmountPaid = decimal.Zero
		}
	}

	if previous == StatusInstallment && newStatus != StatusInstallment {
		inv.ClearInstallments()
		if newStatus != StatusPaid {
			inv.AmountPaid = decimal.Zero
		}
	}

	inv.Status = newStatus
	inv.UpdatedAt = time.Now()

	if previous != newStatus {
		inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, previous))
		if newStatus == StatusPaid {
			inv.AddDomainEvent(NewInvoicePaidEvent(inv))
		}
	}

	return nil
}

// SyncPaidAmount re-asserts the paid-in-full invariant after edits: a paid
// invoice always carries AmountPaid equal to its current total, so item or
// rate changes can never strand a stale amount. A paid invoice with no items
// is rejected.
func (inv *Invoice) SyncPaidAmount() error {
	if inv.Status != StatusPaid {
		return nil
	}
	if len(inv.Items) == 0 {
		return shared.ErrEmptyInvoice
	}
	inv.AmountPaid = inv.Total().Amount()
	return nil
}

// MarkPaid records a full single payment by moving the invoice to paid.
// Calling it on an already-paid invoice is a no-op in effect: AmountPaid is
// re-derived to the same total.
func (inv *Invoice) MarkPaid() error {
	return inv.ChangeStatus(StatusPaid)
}

// MarkInstallmentPaid records a payment on one installment and rolls it up
// into the invoice: the installment is stamped, its amount accumulates into
// AmountPaid, and the invoice flips to paid once the total is covered.
func (inv *Invoice) MarkInstallmentPaid(installmentID uuid.UUID, paidAt time.Time) error {
	idx := -1
	for i := range inv.Installments {
		if inv.Installments[i].ID == installmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}

	installment := &inv.Installments[idx]
	if err := installment.MarkPaid(paidAt); err != nil {
		return err
	}

	inv.AmountPaid = inv.AmountPaid.Add(installment.Amount)
	inv.UpdatedAt = time.Now()

	inv.AddDomainEvent(NewInstallmentPaidEvent(inv, installment))

	// Covering the total flips the invoice to paid in place. The schedule is
	// not purged here; only an explicit status edit away from installment does
	// that.
	if valueobject.NewMoney(inv.AmountPaid).GreaterThanOrEqual(inv.Total()) && len(inv.Items) > 0 {
		previous := inv.Status
		inv.AmountPaid = inv.Total().Amount()
		inv.Status = StatusPaid
		inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, previous))
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}

	inv.RebuildInstallmentPlan()
	return nil
}

// RebuildInstallmentPlan regenerates the human-readable plan summary from the
// live installment set: one line per installment ordered by due date. The
// stored text is a projection only and is overwritten on every rebuild.
func (inv *Invoice) RebuildInstallmentPlan() {
	if len(inv.Installments) == 0 {
		inv.InstallmentPlan = ""
		return
	}

	ordered := make([]Installment, len(inv.Installments))
	copy(ordered, inv.Installments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DueDate.Before(ordered[j].DueDate)
	})

	lines := make([]string, 0, len(ordered))
	for i, installment := range ordered {
		marker := "Pending"
		if installment.IsPaid {
			marker = "Paid"
		}
		lines = append(lines, fmt.Sprintf(
			"Installment %d: %s due %s (%s)",
			i+1,
			installment.AmountMoney().String(),
			installment.DueDate.Format("2006-01-02"),
			marker,
		))
	}
	inv.InstallmentPlan = strings.Join(lines, "\n")
}
