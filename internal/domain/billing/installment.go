package billing

import (
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is a scheduled partial payment belonging to an invoice.
// PaymentDate is nil until the installment is paid, then set exactly once
// and frozen.
type Installment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DueDate     time.Time       `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsPaid      bool            `gorm:"not null;default:false"`
	PaymentDate *time.Time      `gorm:"type:date"`
	Notes       string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Installment) TableName() string {
	return "installments"
}

// NewInstallment creates a new unpaid installment
func NewInstallment(invoiceID uuid.UUID, dueDate time.Time, amount valueobject.Money, notes string) (*Installment, error) {
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("Installment due date is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("Installment amount must be positive")
	}

	now := time.Now()
	return &Installment{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		DueDate:   dueDate,
		Amount:    amount.Amount(),
		IsPaid:    false,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MarkPaid flips the installment to paid and stamps the payment date.
// Calling it on an already-paid installment is rejected so the amount can
// never be applied to the invoice twice.
func (i *Installment) MarkPaid(paidAt time.Time) error {
	if i.IsPaid {
		return shared.ErrInstallmentAlreadyPaid
	}
	i.IsPaid = true
	i.PaymentDate = &paidAt
	i.UpdatedAt = time.Now()
	return nil
}

// AmountMoney returns the installment amount as a Money value object
func (i *Installment) AmountMoney() valueobject.Money {
	return valueobject.NewMoney(i.Amount)
}
