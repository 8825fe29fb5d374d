package billing

import (
	"context"

	"go.uber.org/zap"

	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
)

// InvoiceActivityHandler records invoice lifecycle events to the activity
// log. It is subscribed on the event bus at startup.
type InvoiceActivityHandler struct {
	logger *zap.Logger
}

// NewInvoiceActivityHandler creates a new InvoiceActivityHandler
func NewInvoiceActivityHandler(logger *zap.Logger) *InvoiceActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceActivityHandler{logger: logger.Named("invoice_activity")}
}

// EventTypes implements shared.EventHandler
func (h *InvoiceActivityHandler) EventTypes() []string {
	return []string{
		billing.EventTypeInvoiceCreated,
		billing.EventTypeInvoiceStatusChanged,
		billing.EventTypeInvoicePaid,
		billing.EventTypeInstallmentPaid,
	}
}

// Handle implements shared.EventHandler
func (h *InvoiceActivityHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("invoice_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *billing.InvoiceStatusChangedEvent:
		fields = append(fields,
			zap.String("from", string(e.FromStatus)),
			zap.String("to", string(e.ToStatus)),
		)
	case *billing.InvoicePaidEvent:
		fields = append(fields, zap.String("amount_paid", e.AmountPaid.String()))
	case *billing.InstallmentPaidEvent:
		fields = append(fields,
			zap.String("installment_id", e.InstallmentID.String()),
			zap.String("amount", e.Amount.String()),
		)
	}

	h.logger.Info("invoice activity", fields...)
	return nil
}
