// Invoice lifecycle and installment reconciliation tests against a real
// database.
package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/Yousefaborizk/moonstar/internal/application/billing"
	"github.com/Yousefaborizk/moonstar/internal/domain/identity"
)

type invoiceEnvelope struct {
	Success bool                      `json:"success"`
	Data    billingapp.InvoiceResponse `json:"data"`
}

type totalsEnvelope struct {
	Success bool                    `json:"success"`
	Data    billingapp.InvoiceTotals `json:"data"`
}

type summaryEnvelope struct {
	Success bool                      `json:"success"`
	Data    billingapp.InvoiceSummary `json:"data"`
}

func decodeInvoice(t *testing.T, w *httptest.ResponseRecorder) billingapp.InvoiceResponse {
	t.Helper()
	var env invoiceEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse invoice response: %s", w.Body.String())
	require.True(t, env.Success)
	return env.Data
}

// seedClient creates a client through the API and returns its ID
func seedClient(t *testing.T, ts *TestServer, token, name string) uuid.UUID {
	t.Helper()
	w := ts.Request(http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"name":  name,
		"phone": "+201001234567",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, "Create client failed: %s", w.Body.String())

	resp := DecodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	id, err := uuid.Parse(data["id"].(string))
	require.NoError(t, err)
	return id
}

// seedProduct creates a product through the API and returns its ID
func seedProduct(t *testing.T, ts *TestServer, token, name, price string) uuid.UUID {
	t.Helper()
	w := ts.Request(http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":     name,
		"category": "moving_head",
		"price":    price,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, "Create product failed: %s", w.Body.String())

	resp := DecodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	id, err := uuid.Parse(data["id"].(string))
	require.NoError(t, err)
	return id
}

func TestInvoiceAPI_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	token := ts.RegisterUser(t, "yousef", "s3cret-pass-123", identity.RoleAdmin)

	clientID := seedClient(t, ts, token, "Cairo Events Co")
	beamID := seedProduct(t, ts, token, "Beam 230W", "150.50")
	parID := seedProduct(t, ts, token, "LED Par 64", "75.25")

	var invoiceID uuid.UUID

	t.Run("Create invoice with items", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"client_id":       clientID,
			"date_due":        time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
			"tax_percentage":  "14",
			"discount_amount": "10",
			"items": []map[string]interface{}{
				{"product_id": beamID, "quantity": 2},
				{"product_id": parID, "quantity": 4},
			},
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, "Create invoice failed: %s", w.Body.String())

		inv := decodeInvoice(t, w)
		invoiceID = inv.ID
		assert.Equal(t, "draft", string(inv.Status))
		assert.Greater(t, inv.Number, int64(0))
		assert.Equal(t, clientID, inv.ClientID)
		assert.Equal(t, "Cairo Events Co", inv.ClientName)
		assert.Len(t, inv.Items, 2)

		// 2*150.50 + 4*75.25 = 602; +14% tax = 686.28; -10 discount = 676.28
		assert.True(t, decimal.RequireFromString("602").Equal(inv.Totals.Subtotal),
			"subtotal = %s", inv.Totals.Subtotal)
		assert.True(t, decimal.RequireFromString("84.28").Equal(inv.Totals.TaxAmount),
			"tax = %s", inv.Totals.TaxAmount)
		assert.True(t, decimal.RequireFromString("676.28").Equal(inv.Totals.Total),
			"total = %s", inv.Totals.Total)
		assert.True(t, inv.Totals.AmountPaid.IsZero())
	})

	t.Run("Unit prices are snapshotted from the catalog", func(t *testing.T) {
		// Raising the catalog price must not change the existing invoice
		w := ts.Request(http.MethodPut, "/api/v1/products/"+beamID.String(), map[string]interface{}{
			"price": "999",
		}, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = ts.Request(http.MethodGet, "/api/v1/invoices/"+invoiceID.String(), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		inv := decodeInvoice(t, w)
		assert.True(t, decimal.RequireFromString("602").Equal(inv.Totals.Subtotal))
	})

	t.Run("Send then settle", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/status",
			map[string]string{"status": "sent"}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "sent", string(decodeInvoice(t, w).Status))

		w = ts.Request(http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/mark-paid", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		inv := decodeInvoice(t, w)
		assert.Equal(t, "paid", string(inv.Status))
		assert.True(t, decimal.RequireFromString("676.28").Equal(inv.Totals.AmountPaid))
		assert.True(t, inv.Totals.BalanceDue.IsZero(), "balance = %s", inv.Totals.BalanceDue)
	})

	t.Run("Totals endpoint", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/invoices/"+invoiceID.String()+"/totals", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var env totalsEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, decimal.RequireFromString("676.28").Equal(env.Data.Total))
		assert.True(t, decimal.RequireFromString("100").Equal(env.Data.PaymentProgress))
	})

	t.Run("Unknown invoice returns 404", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)

		resp := DecodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("Missing token returns 401", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/invoices", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Creation is restricted by policy", func(t *testing.T) {
		intruderToken := ts.RegisterUser(t, "intruder", "another-pass-123", identity.RoleStaff)

		w := ts.Request(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"client_id": clientID,
			"date_due":  time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
		}, intruderToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		resp := DecodeResponse(t, w)
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	})

	t.Run("Unknown client is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"client_id": uuid.NewString(),
			"date_due":  time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
		}, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := DecodeResponse(t, w)
		assert.Equal(t, "INVALID_CLIENT", resp.Error.Code)
	})

	t.Run("Duplicate product on one invoice is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"client_id": clientID,
			"date_due":  time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
			"items": []map[string]interface{}{
				{"product_id": parID, "quantity": 1},
				{"product_id": parID, "quantity": 2},
			},
		}, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := DecodeResponse(t, w)
		assert.Equal(t, "DUPLICATE_ITEM", resp.Error.Code)
	})

	t.Run("Empty invoice cannot be marked paid", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"client_id": clientID,
			"date_due":  time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)
		emptyID := decodeInvoice(t, w).ID

		w = ts.Request(http.MethodPost, "/api/v1/invoices/"+emptyID.String()+"/mark-paid", nil, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := DecodeResponse(t, w)
		assert.Equal(t, "EMPTY_INVOICE", resp.Error.Code)
	})

	t.Run("Cancelled invoice is locked", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"client_id": clientID,
			"date_due":  time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
			"items": []map[string]interface{}{
				{"product_id": parID, "quantity": 1},
			},
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)
		cancelledID := decodeInvoice(t, w).ID

		w = ts.Request(http.MethodPost, "/api/v1/invoices/"+cancelledID.String()+"/status",
			map[string]string{"status": "cancelled"}, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = ts.Request(http.MethodPost, "/api/v1/invoices/"+cancelledID.String()+"/installments",
			map[string]interface{}{
				"due_date": time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
				"amount":   "50",
			}, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := DecodeResponse(t, w)
		assert.Equal(t, "INVOICE_LOCKED", resp.Error.Code)
	})
}

func TestInstallmentAPI_Reconciliation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	token := ts.RegisterUser(t, "hany", "s3cret-pass-123", identity.RoleStaff)

	clientID := seedClient(t, ts, token, "Alexandria Weddings")
	productID := seedProduct(t, ts, token, "Smoke Machine 1500W", "301")

	// No tax, no discount: total = 2 * 301 = 602
	w := ts.Request(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"client_id": clientID,
		"date_due":  time.Now().AddDate(0, 2, 0).Format(time.RFC3339),
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": 2},
		},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := decodeInvoice(t, w).ID

	w = ts.Request(http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/status",
		map[string]string{"status": "installment"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.True(t, decodeInvoice(t, w).IsInstallment)

	var firstID, secondID uuid.UUID

	t.Run("Schedule two installments", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/installments",
			map[string]interface{}{
				"due_date": time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
				"amount":   "300",
				"notes":    "deposit",
			}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.Request(http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/installments",
			map[string]interface{}{
				"due_date": time.Now().AddDate(0, 2, 0).Format(time.RFC3339),
				"amount":   "302",
			}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		inv := decodeInvoice(t, w)
		require.Len(t, inv.Installments, 2)
		assert.NotEmpty(t, inv.InstallmentPlan)

		firstID = inv.Installments[0].ID
		secondID = inv.Installments[1].ID
	})

	t.Run("Paying one installment accumulates", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/installments/"+firstID.String()+"/mark-paid", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		inv := decodeInvoice(t, w)
		assert.Equal(t, "installment", string(inv.Status))
		assert.True(t, decimal.RequireFromString("300").Equal(inv.Totals.AmountPaid),
			"amount_paid = %s", inv.Totals.AmountPaid)
		assert.True(t, decimal.RequireFromString("302").Equal(inv.Totals.BalanceDue))
	})

	t.Run("Double payment is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/installments/"+firstID.String()+"/mark-paid", nil, token)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		resp := DecodeResponse(t, w)
		assert.Equal(t, "ALREADY_PAID", resp.Error.Code)
	})

	t.Run("Covering the total settles the invoice", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/installments/"+secondID.String()+"/mark-paid", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		inv := decodeInvoice(t, w)
		assert.Equal(t, "paid", string(inv.Status))
		assert.True(t, decimal.RequireFromString("602").Equal(inv.Totals.AmountPaid))
		assert.True(t, inv.Totals.BalanceDue.IsZero())
	})

	t.Run("Unknown installment returns 404", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/installments/"+uuid.NewString()+"/mark-paid", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInvoiceAPI_ListAndSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	token := ts.RegisterUser(t, "yousef", "s3cret-pass-123", identity.RoleAdmin)

	clientA := seedClient(t, ts, token, "Client A")
	clientB := seedClient(t, ts, token, "Client B")
	productID := seedProduct(t, ts, token, "Truss Segment 2m", "100")

	newInvoice := func(clientID uuid.UUID, quantity int) uuid.UUID {
		w := ts.Request(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
			"client_id": clientID,
			"date_due":  time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
			"items": []map[string]interface{}{
				{"product_id": productID, "quantity": quantity},
			},
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return decodeInvoice(t, w).ID
	}

	first := newInvoice(clientA, 1)  // 100
	newInvoice(clientA, 2)           // 200
	newInvoice(clientB, 3)           // 300

	w := ts.Request(http.MethodPost, "/api/v1/invoices/"+first.String()+"/mark-paid", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("Filter by client", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/invoices?client_id="+clientA.String(), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		resp := DecodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
	})

	t.Run("Filter by status", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/invoices?status=paid", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		resp := DecodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("Unknown status filter is a bad request", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/invoices?status=bogus", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Pagination", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/invoices?page=1&page_size=2", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		resp := DecodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(3), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.PageSize)
		assert.Equal(t, 2, resp.Meta.TotalPages)
		items := resp.Data.([]interface{})
		assert.Len(t, items, 2)
	})

	t.Run("Summary covers the whole matching set", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/invoices/summary", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var env summaryEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, int64(3), env.Data.Count)
		assert.True(t, decimal.RequireFromString("600").Equal(env.Data.TotalAmount),
			"total = %s", env.Data.TotalAmount)
		assert.True(t, decimal.RequireFromString("100").Equal(env.Data.PaidAmount),
			"paid = %s", env.Data.PaidAmount)
	})

	t.Run("Summary filtered by date range", func(t *testing.T) {
		today := time.Now().Format("2006-01-02")
		w := ts.Request(http.MethodGet,
			fmt.Sprintf("/api/v1/invoices/summary?created_from=%s&created_to=%s", today, today), nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var env summaryEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, int64(3), env.Data.Count)
	})
}
