package handler

import (
	settlementapp "github.com/billfold/backend/internal/application/settlement"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice settlement API endpoints
type InvoiceHandler struct {
	BaseHandler
	settlementService *settlementapp.SettlementService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(settlementService *settlementapp.SettlementService) *InvoiceHandler {
	return &InvoiceHandler{settlementService: settlementService}
}

// Create creates an invoice, optionally settling it immediately
// POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req settlementapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.ActorID == nil {
		req.ActorID = getActorID(c)
	}

	resp, err := h.settlementService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update replaces the line items of a PENDING invoice
// PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	invoiceID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req settlementapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.settlementService.UpdateInvoice(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Pay settles a PENDING invoice and deducts its stock
// POST /api/v1/invoices/:id/pay
func (h *InvoiceHandler) Pay(c *gin.Context) {
	invoiceID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.settlementService.MarkInvoicePaid(c.Request.Context(), invoiceID, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels an invoice, restoring stock if it was paid
// POST /api/v1/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	invoiceID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.settlementService.CancelInvoice(c.Request.Context(), invoiceID, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns a single invoice with its items
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.settlementService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns a single invoice looked up by its invoice number
// GET /api/v1/invoices/number/:number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Invoice number required")
		return
	}

	resp, err := h.settlementService.GetInvoiceByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List lists invoices
// GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter settlementapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.settlementService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
