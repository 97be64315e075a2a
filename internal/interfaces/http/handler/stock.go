package handler

import (
	"time"

	stockapp "github.com/billfold/backend/internal/application/stock"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/billfold/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// parseDateTime parses a datetime string in the formats the API accepts
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// dateRangeOrDefault resolves an optional start/end query pair, defaulting to
// the trailing 30 days
func dateRangeOrDefault(req dto.DateRangeRequest) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if req.Start != "" {
		t, err := parseDateTime(req.Start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	if req.End != "" {
		t, err := parseDateTime(req.End)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}
	return start, end, nil
}

// StockHandler handles stock movement API endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Adjust records a stock movement
// POST /api/v1/stock/adjustments
func (h *StockHandler) Adjust(c *gin.Context) {
	var req stockapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.ActorID == nil {
		req.ActorID = getActorID(c)
	}

	resp, err := h.stockService.Adjust(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListEntries lists ledger entries in a date range
// GET /api/v1/stock/entries
func (h *StockHandler) ListEntries(c *gin.Context) {
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

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize}
	entries, err := h.stockService.ListEntries(c.Request.Context(), start, end, c.Query("kind"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// ProductHistory lists the ledger entries of one product, most recent first
// GET /api/v1/products/:id/ledger
func (h *StockHandler) ProductHistory(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize}
	page, err := h.stockService.GetProductHistory(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// VerifyReconciliation checks a product's quantity projection against the
// sum of its ledger entries
// GET /api/v1/products/:id/reconciliation
func (h *StockHandler) VerifyReconciliation(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.stockService.VerifyReconciliation(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"product_id": productID, "consistent": true})
}
