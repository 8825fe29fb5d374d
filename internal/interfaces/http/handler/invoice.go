package handler

import (
	"errors"
	"time"

	billingapp "github.com/Yousefaborizk/moonstar/internal/application/billing"
	identityapp "github.com/Yousefaborizk/moonstar/internal/application/identity"
	"github.com/Yousefaborizk/moonstar/internal/domain/billing"
	"github.com/Yousefaborizk/moonstar/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
	authService    *identityapp.AuthService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, authService *identityapp.AuthService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		authService:    authService,
	}
}

// invoiceListQuery carries invoice-specific list filters on top of the
// common pagination parameters. Dates are day-granular, inclusive.
type invoiceListQuery struct {
	dto.ListRequest
	Status      string `form:"status"`
	ClientID    string `form:"client_id" binding:"omitempty,uuid"`
	CreatedFrom string `form:"created_from" binding:"omitempty,datetime=2006-01-02"`
	CreatedTo   string `form:"created_to" binding:"omitempty,datetime=2006-01-02"`
}

// changeStatusRequest carries an explicit lifecycle transition
type changeStatusRequest struct {
	Status billing.InvoiceStatus `json:"status" binding:"required"`
}

func (q invoiceListQuery) toFilter() (billingapp.InvoiceListFilter, error) {
	filter := billingapp.InvoiceListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}
	if q.Status != "" {
		status := billing.InvoiceStatus(q.Status)
		if !status.IsValid() {
			return filter, errors.New("unknown invoice status")
		}
		filter.Status = &status
	}
	if q.ClientID != "" {
		clientID, err := uuid.Parse(q.ClientID)
		if err != nil {
			return filter, err
		}
		filter.ClientID = &clientID
	}
	if q.CreatedFrom != "" {
		from, err := time.Parse("2006-01-02", q.CreatedFrom)
		if err != nil {
			return filter, err
		}
		filter.CreatedFrom = &from
	}
	if q.CreatedTo != "" {
		to, err := time.Parse("2006-01-02", q.CreatedTo)
		if err != nil {
			return filter, err
		}
		// Inclusive upper bound covers the whole day
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedTo = &to
	}
	return filter, nil
}

// Create creates a new invoice. Creation is restricted by policy to a
// configured set of users, so the authenticated actor is resolved first.
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	actor, err := h.authService.UserByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoiceService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single invoice with items, installments and totals
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns a paginated invoice listing
func (h *InvoiceHandler) List(c *gin.Context) {
	var query invoiceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Summary returns aggregate figures over the filtered invoice set
func (h *InvoiceHandler) Summary(c *gin.Context) {
	var query invoiceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.invoiceService.Summary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update applies a partial update to an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoiceService.Update(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangeStatus transitions the invoice lifecycle
func (h *InvoiceHandler) ChangeStatus(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoiceService.ChangeStatus(c.Request.Context(), invoiceID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkPaid settles the invoice in full
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.MarkPaid(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Totals returns the derived monetary figures of an invoice
func (h *InvoiceHandler) Totals(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.Totals(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddInstallment appends a scheduled installment to the invoice
func (h *InvoiceHandler) AddInstallment(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billingapp.InstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.invoiceService.AddInstallment(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkInstallmentPaid records payment of a single installment, settling
// the invoice when the paid sum covers the total
func (h *InvoiceHandler) MarkInstallmentPaid(c *gin.Context) {
	installmentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid installment ID")
		return
	}

	resp, err := h.invoiceService.MarkInstallmentPaid(c.Request.Context(), installmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
