package inventory

import (
	"testing"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	w, err := NewWarehouse("Main Depot", "Nasr City, Cairo")
	require.NoError(t, err)
	return w
}

func TestNewWarehouse(t *testing.T) {
	t.Run("creates warehouse", func(t *testing.T) {
		w := createTestWarehouse(t)
		assert.Equal(t, "Main Depot", w.Name)
		assert.Empty(t, w.Stocks)
		assert.NotEmpty(t, w.GetDomainEvents())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewWarehouse("", "nowhere")
		require.Error(t, err)
	})
}

func TestWarehouse_AddStock(t *testing.T) {
	t.Run("creates a stock row for a new product", func(t *testing.T) {
		w := createTestWarehouse(t)
		stock, err := w.AddStock(uuid.New(), "Moving Head 280W", 8)
		require.NoError(t, err)
		assert.Equal(t, 8, stock.Quantity)
		assert.Len(t, w.Stocks, 1)
	})

	t.Run("repeated intake accumulates onto the same row", func(t *testing.T) {
		w := createTestWarehouse(t)
		productID := uuid.New()

		_, err := w.AddStock(productID, "Led Par 54x3", 10)
		require.NoError(t, err)
		stock, err := w.AddStock(productID, "Led Par 54x3", 5)
		require.NoError(t, err)

		assert.Equal(t, 15, stock.Quantity)
		assert.Len(t, w.Stocks, 1)
		assert.Equal(t, 15, w.TotalQuantity())
	})

	t.Run("rejects non-positive intake", func(t *testing.T) {
		w := createTestWarehouse(t)
		_, err := w.AddStock(uuid.New(), "Smoke 1500", 0)
		require.Error(t, err)
	})
}

func TestWarehouse_SetStock(t *testing.T) {
	w := createTestWarehouse(t)
	productID := uuid.New()

	_, err := w.AddStock(productID, "Truss 3m", 20)
	require.NoError(t, err)

	stock, err := w.SetStock(productID, "Truss 3m", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, stock.Quantity)

	_, err = w.SetStock(productID, "Truss 3m", -1)
	require.Error(t, err)
}

func TestWarehouse_RemoveStock(t *testing.T) {
	w := createTestWarehouse(t)
	productID := uuid.New()

	_, err := w.AddStock(productID, "Laser RGB", 3)
	require.NoError(t, err)

	require.NoError(t, w.RemoveStock(productID))
	assert.Empty(t, w.Stocks)
	assert.Nil(t, w.StockFor(productID))

	err = w.RemoveStock(productID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
