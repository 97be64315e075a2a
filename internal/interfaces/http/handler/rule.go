package handler

import (
	settlementapp "github.com/billfold/backend/internal/application/settlement"
	"github.com/gin-gonic/gin"
)

// RuleHandler handles discount and tax rule API endpoints
type RuleHandler struct {
	BaseHandler
	ruleService *settlementapp.RuleService
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(ruleService *settlementapp.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// CreateDiscountRule creates a discount rule
// POST /api/v1/discount-rules
func (h *RuleHandler) CreateDiscountRule(c *gin.Context) {
	var req settlementapp.CreateDiscountRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.ruleService.CreateDiscountRule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListDiscountRules lists discount rules
// GET /api/v1/discount-rules
func (h *RuleHandler) ListDiscountRules(c *gin.Context) {
	rules, err := h.ruleService.ListDiscountRules(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rules)
}

// SetDiscountRuleActive toggles a discount rule on or off
// PATCH /api/v1/discount-rules/:id/active
func (h *RuleHandler) SetDiscountRuleActive(c *gin.Context) {
	ruleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	var req settlementapp.SetRuleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.ruleService.SetDiscountRuleActive(c.Request.Context(), ruleID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteDiscountRule deletes a discount rule
// DELETE /api/v1/discount-rules/:id
func (h *RuleHandler) DeleteDiscountRule(c *gin.Context) {
	ruleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	if err := h.ruleService.DeleteDiscountRule(c.Request.Context(), ruleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateTaxRule creates a tax rule
// POST /api/v1/tax-rules
func (h *RuleHandler) CreateTaxRule(c *gin.Context) {
	var req settlementapp.CreateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.ruleService.CreateTaxRule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListTaxRules lists tax rules
// GET /api/v1/tax-rules
func (h *RuleHandler) ListTaxRules(c *gin.Context) {
	rules, err := h.ruleService.ListTaxRules(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rules)
}

// SetTaxRuleActive toggles a tax rule on or off
// PATCH /api/v1/tax-rules/:id/active
func (h *RuleHandler) SetTaxRuleActive(c *gin.Context) {
	ruleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	var req settlementapp.SetRuleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.ruleService.SetTaxRuleActive(c.Request.Context(), ruleID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteTaxRule deletes a tax rule
// DELETE /api/v1/tax-rules/:id
func (h *RuleHandler) DeleteTaxRule(c *gin.Context) {
	ruleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	if err := h.ruleService.DeleteTaxRule(c.Request.Context(), ruleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
