package billing

import (
	"strings"
	"testing"
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createInstallmentInvoice puts the reference invoice (total 270.00) on an
// installment plan split into two equal payments.
func createInstallmentInvoice(t *testing.T) (*Invoice, *Installment, *Installment) {
	t.Helper()
	inv := createReferenceInvoice(t)
	require.NoError(t, inv.ChangeStatus(StatusInstallment))

	first, err := inv.AddInstallment(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), valueobject.NewMoneyFromFloat(135.00), "")
	require.NoError(t, err)
	second, err := inv.AddInstallment(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), valueobject.NewMoneyFromFloat(135.00), "")
	require.NoError(t, err)
	return inv, first, second
}

func TestNewInstallment(t *testing.T) {
	t.Run("creates pending installment", func(t *testing.T) {
		inst, err := NewInstallment(uuid.New(), time.Now(), valueobject.NewMoneyFromFloat(50), "deposit")
		require.NoError(t, err)
		assert.False(t, inst.IsPaid)
		assert.Nil(t, inst.PaymentDate)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewInstallment(uuid.New(), time.Now(), valueobject.Zero(), "")
		require.Error(t, err)
	})

	t.Run("rejects missing due date", func(t *testing.T) {
		_, err := NewInstallment(uuid.New(), time.Time{}, valueobject.NewMoneyFromFloat(50), "")
		require.Error(t, err)
	})
}

func TestInstallment_MarkPaid(t *testing.T) {
	t.Run("stamps payment date once", func(t *testing.T) {
		inst, err := NewInstallment(uuid.New(), time.Now(), valueobject.NewMoneyFromFloat(50), "")
		require.NoError(t, err)

		paidAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, inst.MarkPaid(paidAt))
		assert.True(t, inst.IsPaid)
		require.NotNil(t, inst.PaymentDate)
		assert.Equal(t, paidAt, *inst.PaymentDate)

		err = inst.MarkPaid(paidAt.Add(time.Hour))
		assert.ErrorIs(t, err, shared.ErrInstallmentAlreadyPaid)
		assert.Equal(t, paidAt, *inst.PaymentDate)
	})
}

func TestInvoice_MarkInstallmentPaid(t *testing.T) {
	t.Run("first payment accumulates without settling the invoice", func(t *testing.T) {
		inv, first, _ := createInstallmentInvoice(t)

		require.NoError(t, inv.MarkInstallmentPaid(first.ID, time.Now()))
		assert.Equal(t, "135.00", inv.AmountPaidMoney().String())
		assert.Equal(t, "135.00", inv.BalanceDue().String())
		assert.Equal(t, StatusInstallment, inv.Status)
		assert.Equal(t, "50", inv.PaymentProgress().String())
	})

	t.Run("final payment settles the invoice", func(t *testing.T) {
		inv, first, second := createInstallmentInvoice(t)

		require.NoError(t, inv.MarkInstallmentPaid(first.ID, time.Now()))
		require.NoError(t, inv.MarkInstallmentPaid(second.ID, time.Now()))

		assert.Equal(t, StatusPaid, inv.Status)
		assert.Equal(t, "270.00", inv.AmountPaidMoney().String())
		assert.True(t, inv.BalanceDue().IsZero())
		// Payment-driven settlement keeps the schedule for the record.
		assert.Len(t, inv.Installments, 2)
		assert.Contains(t, inv.InstallmentPlan, "(Paid)")
	})

	t.Run("paying twice never double counts", func(t *testing.T) {
		inv, first, _ := createInstallmentInvoice(t)

		require.NoError(t, inv.MarkInstallmentPaid(first.ID, time.Now()))
		err := inv.MarkInstallmentPaid(first.ID, time.Now())
		assert.ErrorIs(t, err, shared.ErrInstallmentAlreadyPaid)
		assert.Equal(t, "135.00", inv.AmountPaidMoney().String())
	})

	t.Run("unknown installment", func(t *testing.T) {
		inv, _, _ := createInstallmentInvoice(t)
		err := inv.MarkInstallmentPaid(uuid.New(), time.Now())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("covering the total on an empty invoice does not settle it", func(t *testing.T) {
		inv := createTestInvoice(t)
		require.NoError(t, inv.ChangeStatus(StatusInstallment))
		inst, err := inv.AddInstallment(time.Now(), valueobject.NewMoneyFromFloat(100), "")
		require.NoError(t, err)

		require.NoError(t, inv.MarkInstallmentPaid(inst.ID, time.Now()))
		assert.Equal(t, StatusInstallment, inv.Status)
		assert.Equal(t, "100.00", inv.AmountPaidMoney().String())
	})
}

func TestInvoice_InstallmentPlan(t *testing.T) {
	t.Run("lists installments by due date with payment markers", func(t *testing.T) {
		inv := createReferenceInvoice(t)
		require.NoError(t, inv.ChangeStatus(StatusInstallment))

		// Added out of order; the plan must sort by due date.
		later, err := inv.AddInstallment(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), valueobject.NewMoneyFromFloat(135.00), "")
		require.NoError(t, err)
		_, err = inv.AddInstallment(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), valueobject.NewMoneyFromFloat(135.00), "")
		require.NoError(t, err)

		lines := strings.Split(inv.InstallmentPlan, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Installment 1: 135.00 due 2026-09-15 (Pending)", lines[0])
		assert.Equal(t, "Installment 2: 135.00 due 2026-10-15 (Pending)", lines[1])

		require.NoError(t, inv.MarkInstallmentPaid(later.ID, time.Now()))
		lines = strings.Split(inv.InstallmentPlan, "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "(Pending)")
		assert.Contains(t, lines[1], "(Paid)")
	})

	t.Run("empty plan for no installments", func(t *testing.T) {
		inv := createTestInvoice(t)
		inv.RebuildInstallmentPlan()
		assert.Empty(t, inv.InstallmentPlan)
	})
}
