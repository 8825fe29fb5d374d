package billing

import (
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
	EventTypeInvoicePaid          = "InvoicePaid"
	EventTypeInstallmentPaid      = "InstallmentPaid"
)

// InvoiceCreatedEvent is published when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID     `json:"invoice_id"`
	ClientID  uuid.UUID     `json:"client_id"`
	Status    InvoiceStatus `json:"status"`
	DateDue   time.Time     `json:"date_due"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		ClientID:        inv.ClientID,
		Status:          inv.Status,
		DateDue:         inv.DateDue,
	}
}

// InvoiceStatusChangedEvent is published on every status transition
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	FromStatus InvoiceStatus   `json:"from_status"`
	ToStatus   InvoiceStatus   `json:"to_status"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, from InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		FromStatus:      from,
		ToStatus:        inv.Status,
		AmountPaid:      inv.AmountPaid,
	}
}

// InvoicePaidEvent is published when an invoice reaches paid status
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	ClientID   uuid.UUID       `json:"client_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		ClientID:        inv.ClientID,
		AmountPaid:      inv.AmountPaid,
	}
}

// InstallmentPaidEvent is published when one installment payment is recorded
type InstallmentPaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InstallmentID uuid.UUID       `json:"installment_id"`
	Amount        decimal.Decimal `json:"amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
}

// NewInstallmentPaidEvent creates a new InstallmentPaidEvent
func NewInstallmentPaidEvent(inv *Invoice, installment *Installment) *InstallmentPaidEvent {
	return &InstallmentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInstallmentPaid, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		InstallmentID:   installment.ID,
		Amount:          installment.Amount,
		AmountPaid:      inv.AmountPaid,
	}
}
