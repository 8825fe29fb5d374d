package billing

import (
	"testing"
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func createTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(
		uuid.New(),
		"Cairo Events Co.",
		nil,
		time.Now().AddDate(0, 1, 0),
		decimal.Zero,
		decimal.Zero,
		"",
	)
	require.NoError(t, err)
	return inv
}

// createReferenceInvoice builds the reference invoice: items
// (100.00 x 2, 50.00 x 1), tax 10%, discount 5.00.
func createReferenceInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(
		uuid.New(),
		"Cairo Events Co.",
		nil,
		time.Now().AddDate(0, 1, 0),
		decimal.NewFromInt(10),
		decimal.NewFromInt(5),
		"",
	)
	require.NoError(t, err)

	_, err = inv.AddItem(uuid.New(), "Moving Head 280W", valueobject.NewMoneyFromFloat(100.00), 2)
	require.NoError(t, err)
	_, err = inv.AddItem(uuid.New(), "Led Par 54x3", valueobject.NewMoneyFromFloat(50.00), 1)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice with valid inputs", func(t *testing.T) {
		clientID := uuid.New()
		assignee := uuid.New()
		due := time.Now().AddDate(0, 0, 14)

		inv, err := NewInvoice(clientID, "Client", &assignee, due, decimal.NewFromInt(14), decimal.NewFromInt(10), "rental gig")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, inv.ID)
		assert.Equal(t, StatusDraft, inv.Status)
		assert.Equal(t, clientID, inv.ClientID)
		assert.Equal(t, &assignee, inv.AssigneeID)
		assert.True(t, inv.AmountPaid.IsZero())
		assert.Empty(t, inv.Items)
		assert.Empty(t, inv.Installments)
		assert.NotEmpty(t, inv.GetDomainEvents())
	})

	t.Run("fails without client", func(t *testing.T) {
		_, err := NewInvoice(uuid.Nil, "", nil, time.Now(), decimal.Zero, decimal.Zero, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client")
	})

	t.Run("fails without due date", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "Client", nil, time.Time{}, decimal.Zero, decimal.Zero, "")
		require.Error(t, err)
	})

	t.Run("fails with negative tax percentage", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "Client", nil, time.Now(), decimal.NewFromInt(-1), decimal.Zero, "")
		require.Error(t, err)
	})

	t.Run("fails with negative discount", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), "Client", nil, time.Now(), decimal.Zero, decimal.NewFromInt(-5), "")
		require.Error(t, err)
	})
}

func TestInvoice_AddItem(t *testing.T) {
	t.Run("adds items", func(t *testing.T) {
		inv := createTestInvoice(t)
		item, err := inv.AddItem(uuid.New(), "Truss 3m", valueobject.NewMoneyFromFloat(75.50), 4)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, item.InvoiceID)
		assert.Len(t, inv.Items, 1)
		assert.Equal(t, "302.00", inv.Subtotal().String())
	})

	t.Run("rejects duplicate product on the same invoice", func(t *testing.T) {
		inv := createTestInvoice(t)
		productID := uuid.New()
		_, err := inv.AddItem(productID, "Smoke 1500", valueobject.NewMoneyFromFloat(10), 1)
		require.NoError(t, err)

		_, err = inv.AddItem(productID, "Smoke 1500", valueobject.NewMoneyFromFloat(10), 2)
		assert.ErrorIs(t, err, shared.ErrDuplicateInvoiceItem)
		assert.Len(t, inv.Items, 1)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		inv := createTestInvoice(t)
		_, err := inv.AddItem(uuid.New(), "Laser", valueobject.NewMoneyFromFloat(10), 0)
		require.Error(t, err)
	})

	t.Run("rejects non-positive unit price", func(t *testing.T) {
		inv := createTestInvoice(t)
		_, err := inv.AddItem(uuid.New(), "Laser", valueobject.Zero(), 1)
		require.Error(t, err)
	})
}

func TestInvoice_Totals(t *testing.T) {
	t.Run("matches the reference example", func(t *testing.T) {
		inv := createReferenceInvoice(t)

		assert.Equal(t, "250.00", inv.Subtotal().String())
		assert.Equal(t, "25.00", inv.TaxAmount().String())
		assert.Equal(t, "270.00", inv.Total().String())
		assert.Equal(t, "270.00", inv.BalanceDue().String())
	})

	t.Run("zero with no items", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.True(t, inv.Subtotal().IsZero())
		assert.True(t, inv.TaxAmount().IsZero())
		assert.True(t, inv.Total().IsZero())
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		first := inv.Total()
		for range 10 {
			assert.True(t, first.Equals(inv.Total()))
		}
	})

	t.Run("tax rounds independently before the total", func(t *testing.T) {
		inv := createTestInvoice(t)
		inv.TaxPercentage = decimal.NewFromInt(15)
		_, err := inv.AddItem(uuid.New(), "Lamp", valueobject.NewMoneyFromFloat(33.33), 1)
		require.NoError(t, err)

		// 33.33 * 15% = 4.9995 -> 5.00, total = 38.33
		assert.Equal(t, "5.00", inv.TaxAmount().String())
		assert.Equal(t, "38.33", inv.Total().String())
	})

	t.Run("payment progress", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		assert.True(t, inv.PaymentProgress().IsZero())

		inv.AmountPaid = decimal.NewFromInt(135)
		assert.Equal(t, "50", inv.PaymentProgress().String())

		empty := createTestInvoice(t)
		assert.True(t, empty.PaymentProgress().IsZero())
	})
}

func TestInvoice_ChangeStatus(t *testing.T) {
	t.Run("to paid forces amount paid to total", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.ChangeStatus(StatusPaid))
		assert.Equal(t, StatusPaid, inv.Status)
		assert.Equal(t, "270.00", inv.AmountPaidMoney().String())
		assert.False(t, inv.Status.IsInstallment())
	})

	t.Run("to paid fails on empty invoice and leaves status unchanged", func(t *testing.T) {
		inv := createTestInvoice(t)
		err := inv.ChangeStatus(StatusPaid)
		assert.ErrorIs(t, err, shared.ErrEmptyInvoice)
		assert.Equal(t, StatusDraft, inv.Status)
		assert.True(t, inv.AmountPaid.IsZero())
	})

	t.Run("leaving paid resets amount paid", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.ChangeStatus(StatusPaid))
		require.NoError(t, inv.ChangeStatus(StatusSent))
		assert.True(t, inv.AmountPaid.IsZero())
	})

	t.Run("to installment keeps partial amount paid", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		inv.AmountPaid = decimal.NewFromInt(100)
		require.NoError(t, inv.ChangeStatus(StatusInstallment))
		assert.Equal(t, "100.00", inv.AmountPaidMoney().String())
	})

	t.Run("to installment resets an already-covered amount paid", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		inv.AmountPaid = decimal.NewFromInt(300)
		require.NoError(t, inv.ChangeStatus(StatusInstallment))
		assert.True(t, inv.AmountPaid.IsZero())
	})

	t.Run("leaving installment purges installments and plan", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.ChangeStatus(StatusInstallment))
		_, err := inv.AddInstallment(time.Now().AddDate(0, 1, 0), valueobject.NewMoneyFromFloat(135), "")
		require.NoError(t, err)
		require.NotEmpty(t, inv.InstallmentPlan)
		inv.AmountPaid = decimal.NewFromInt(50)

		require.NoError(t, inv.ChangeStatus(StatusDraft))
		assert.Empty(t, inv.Installments)
		assert.Empty(t, inv.InstallmentPlan)
		assert.True(t, inv.AmountPaid.IsZero())
		assert.False(t, inv.Status.IsInstallment())
	})

	t.Run("cancelled blocks further transitions", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.ChangeStatus(StatusCancelled))
		assert.False(t, inv.CanEdit())

		err := inv.ChangeStatus(StatusDraft)
		assert.ErrorIs(t, err, shared.ErrInvoiceLocked)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.Error(t, inv.ChangeStatus(InvoiceStatus("refunded")))
	})
}

func TestInvoice_MarkPaid(t *testing.T) {
	t.Run("marks invoice paid", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.MarkPaid())
		assert.Equal(t, StatusPaid, inv.Status)
		assert.Equal(t, "270.00", inv.AmountPaidMoney().String())
		assert.True(t, inv.BalanceDue().IsZero())
	})

	t.Run("marking an already-paid invoice is a no-op in effect", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.MarkPaid())
		require.NoError(t, inv.MarkPaid())
		assert.Equal(t, "270.00", inv.AmountPaidMoney().String())
	})
}

func TestInvoice_SyncPaidAmount(t *testing.T) {
	t.Run("re-derives amount paid after item edits on a paid invoice", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.MarkPaid())
		require.Equal(t, "270.00", inv.AmountPaidMoney().String())

		inv.ClearItems()
		_, err := inv.AddItem(uuid.New(), "Fog Fluid 5L", valueobject.NewMoneyFromFloat(50.00), 1)
		require.NoError(t, err)

		require.NoError(t, inv.SyncPaidAmount())
		assert.Equal(t, inv.Total().String(), inv.AmountPaidMoney().String())
		assert.True(t, inv.BalanceDue().IsZero())
	})

	t.Run("rejects a paid invoice stripped of its items", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.MarkPaid())

		inv.ClearItems()
		assert.ErrorIs(t, inv.SyncPaidAmount(), shared.ErrEmptyInvoice)
	})

	t.Run("leaves unpaid invoices alone", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		inv.AmountPaid = decimal.NewFromInt(100)

		require.NoError(t, inv.SyncPaidAmount())
		assert.Equal(t, "100.00", inv.AmountPaidMoney().String())
	})
}

func TestInvoice_IsOverdue(t *testing.T) {
	today := time.Now()

	t.Run("past due and unpaid", func(t *testing.T) {
		inv := createTestInvoice(t)
		inv.DateDue = today.AddDate(0, 0, -3)
		assert.True(t, inv.IsOverdue(today))
	})

	t.Run("paid invoices are never overdue", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		inv.DateDue = today.AddDate(0, 0, -3)
		require.NoError(t, inv.MarkPaid())
		assert.False(t, inv.IsOverdue(today))
	})

	t.Run("future due date", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.False(t, inv.IsOverdue(today))
	})
}

func TestInvoice_SnapshotPricing(t *testing.T) {
	// The line keeps the price it was created with; catalog price changes
	// never propagate into existing invoices.
	inv := createTestInvoice(t)
	_, err := inv.AddItem(uuid.New(), "Led Screen P3", valueobject.NewMoneyFromFloat(500.00), 1)
	require.NoError(t, err)

	assert.Equal(t, "500.00", inv.Items[0].UnitPriceMoney().String())
	assert.Equal(t, "500.00", inv.Subtotal().String())
}
