package handler

import (
	"strconv"

	reportapp "github.com/billfold/backend/internal/application/report"
	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/billfold/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles read-only reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SalesTotal returns the paid-invoice revenue for a period
// GET /api/v1/reports/sales/total
func (h *ReportHandler) SalesTotal(c *gin.Context) {
	var rangeReq dto.DateRangeRequest
	if err := c.ShouldBindQuery(&rangeReq); err != nil {
		h.BindError(c, err)
		return
	}
	start, end, err := dateRangeOrDefault(rangeReq)
	if err != nil {
		h.BadRequest(c, "Invalid date format, use RFC3339 or YYYY-MM-DD")
		return
	}

	resp, err := h.reportService.GetSalesTotal(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PurchaseTotal returns the purchase spend for a period
// GET /api/v1/reports/purchases/total
func (h *ReportHandler) PurchaseTotal(c *gin.Context) {
	var rangeReq dto.DateRangeRequest
	if err := c.ShouldBindQuery(&rangeReq); err != nil {
		h.BindError(c, err)
		return
	}
	start, end, err := dateRangeOrDefault(rangeReq)
	if err != nil {
		h.BadRequest(c, "Invalid date format, use RFC3339 or YYYY-MM-DD")
		return
	}

	resp, err := h.reportService.GetPurchaseTotal(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SalesRows returns the invoices dated within a period, optionally filtered
// by status
// GET /api/v1/reports/sales
func (h *ReportHandler) SalesRows(c *gin.Context) {
	var rangeReq dto.DateRangeRequest
	if err := c.ShouldBindQuery(&rangeReq); err != nil {
		h.BindError(c, err)
		return
	}
	start, end, err := dateRangeOrDefault(rangeReq)
	if err != nil {
		h.BadRequest(c, "Invalid date format, use RFC3339 or YYYY-MM-DD")
		return
	}

	var status *billing.InvoiceStatus
	if raw := c.Query("status"); raw != "" {
		s := billing.InvoiceStatus(raw)
		if !s.IsValid() {
			h.BadRequest(c, "Invalid invoice status")
			return
		}
		status = &s
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize}
	rows, err := h.reportService.ListSalesRows(c.Request.Context(), start, end, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// LedgerRows returns the ledger entries recorded within a period, optionally
// filtered by transaction kind
// GET /api/v1/reports/ledger
func (h *ReportHandler) LedgerRows(c *gin.Context) {
	var rangeReq dto.DateRangeRequest
	if err := c.ShouldBindQuery(&rangeReq); err != nil {
		h.BindError(c, err)
		return
	}
	start, end, err := dateRangeOrDefault(rangeReq)
	if err != nil {
		h.BadRequest(c, "Invalid date format, use RFC3339 or YYYY-MM-DD")
		return
	}

	var kind *ledger.TransactionKind
	if raw := c.Query("kind"); raw != "" {
		k := ledger.TransactionKind(raw)
		if !k.IsValid() {
			h.BadRequest(c, "Invalid transaction kind")
			return
		}
		kind = &k
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize}
	rows, err := h.reportService.ListLedgerRows(c.Request.Context(), start, end, kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// RecentActivity returns the most recent stock movements
// GET /api/v1/reports/activity/recent
func (h *ReportHandler) RecentActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = n
	}

	rows, err := h.reportService.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// LowStock returns products at or below their reorder level
// GET /api/v1/reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize}
	rows, err := h.reportService.ListLowStock(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
