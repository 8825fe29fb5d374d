package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"github.com/Yousefaborizk/moonstar/internal/domain/shared/valueobject"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		fallback string
		expected string
	}{
		{"asc", "DESC", "ASC"},
		{"ASC", "DESC", "ASC"},
		{" desc ", "ASC", "DESC"},
		{"", "ASC", "ASC"},
		{"", "DESC", "DESC"},
		{"sideways", "ASC", "ASC"},
		{"ASC; DROP TABLE invoices", "DESC", "DESC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValidateSortOrder(tt.input, tt.fallback), "input %q", tt.input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"allowed field passes", "price", "price"},
		{"empty falls back", "", "name"},
		{"whitespace falls back", "   ", "name"},
		{"unknown column falls back", "secret_column", "name"},
		{"subquery falls back", "(SELECT count(*) FROM sqlite_master)", "name"},
		{"clause smuggling falls back", "name; DELETE FROM products", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "name"))
		})
	}
}

func setupSortTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&catalog.Product{}))
	return db
}

// A hostile order_by value must never reach the SQL text: the listing falls
// back to the default name ordering instead of executing the payload.
func TestGormProductRepository_FindAllRejectsHostileOrderBy(t *testing.T) {
	db := setupSortTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	names := []string{"Beam Bar", "Aurora Par", "Circuit Fogger"}
	for _, name := range names {
		product, err := catalog.NewProduct(name, catalog.CategoryLedPar, valueobject.NewMoneyFromFloat(120), "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, product))
	}

	filter := catalog.ProductFilter{
		Filter: shared.Filter{
			OrderBy:  "(SELECT count(*) FROM sqlite_master)",
			OrderDir: "desc; DELETE FROM products",
		},
	}

	products, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Aurora Par", products[0].Name)
	assert.Equal(t, "Beam Bar", products[1].Name)
	assert.Equal(t, "Circuit Fogger", products[2].Name)

	var remaining int64
	require.NoError(t, db.Model(&catalog.Product{}).Count(&remaining).Error)
	assert.EqualValues(t, 3, remaining)
}
