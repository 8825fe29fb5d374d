package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormInvoiceRepository_FindByID(t *testing.T) {
	t.Run("maps missing rows to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInvoiceRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "invoices"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	t.Run("stale version fails with concurrency conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInvoiceRepository(db)

		invoice, err := billing.NewInvoice(
			uuid.New(), "Client", nil,
			time.Now().AddDate(0, 1, 0),
			decimal.Zero, decimal.Zero, "",
		)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "invoices"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.SaveWithLock(context.Background(), invoice)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_ExistsForProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormInvoiceRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoice_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	exists, err := repo.ExistsForProduct(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	t.Run("missing invoice fails with not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormInvoiceRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "invoice_items"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "installments"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "invoices"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
