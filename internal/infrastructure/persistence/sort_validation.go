package persistence

import (
	"strings"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC, falling
// back to the given default for anything else.
func ValidateSortOrder(orderDir, fallback string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return fallback
}

// ValidateSortField checks the requested sort field against a whitelist of
// column names. Anything not whitelisted falls back to the default field, so
// caller input never reaches the SQL text.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a validated ORDER BY clause from the filter.
func orderClause(filter shared.Filter, allowedFields map[string]bool, defaultField, defaultDir string) string {
	field := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	return field + " " + ValidateSortOrder(filter.OrderDir, defaultDir)
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"number":          true,
	"client_id":       true,
	"client_name":     true,
	"date_due":        true,
	"status":          true,
	"amount_paid":     true,
	"tax_percentage":  true,
	"discount_amount": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"category":   true,
	"price":      true,
	"active":     true,
}

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"phone":      true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}
