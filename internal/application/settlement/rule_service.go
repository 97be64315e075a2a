package settlement

import (
	"context"
	"time"

	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDiscountRuleRequest represents a request to create a discount rule
type CreateDiscountRuleRequest struct {
	Name  string          `json:"name" binding:"required,min=1,max=100"`
	Value decimal.Decimal `json:"value" binding:"required"`
	Kind  string          `json:"kind" binding:"required,oneof=PERCENT FIXED"`
}

// CreateTaxRuleRequest represents a request to create a tax rule
type CreateTaxRuleRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=100"`
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
}

// SetRuleActiveRequest toggles a rule on or off
type SetRuleActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// DiscountRuleResponse represents a discount rule in API responses
type DiscountRuleResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	Kind      string          `json:"kind"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// TaxRuleResponse represents a tax rule in API responses
type TaxRuleResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RuleService manages the discount and tax rules applied at invoice pricing
// time. Rule changes only affect invoices priced afterwards - settled totals
// are frozen on the invoice.
type RuleService struct {
	discountRepo billing.DiscountRuleRepository
	taxRepo      billing.TaxRuleRepository
}

// NewRuleService creates a new RuleService
func NewRuleService(discountRepo billing.DiscountRuleRepository, taxRepo billing.TaxRuleRepository) *RuleService {
	return &RuleService{
		discountRepo: discountRepo,
		taxRepo:      taxRepo,
	}
}

// CreateDiscountRule creates a discount rule, active by default
func (s *RuleService) CreateDiscountRule(ctx context.Context, req CreateDiscountRuleRequest) (*DiscountRuleResponse, error) {
	rule, err := billing.NewDiscountRule(req.Name, req.Value, billing.DiscountKind(req.Kind))
	if err != nil {
		return nil, err
	}
	if err := s.discountRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return toDiscountRuleResponse(rule), nil
}

// CreateTaxRule creates a tax rule, active by default
func (s *RuleService) CreateTaxRule(ctx context.Context, req CreateTaxRuleRequest) (*TaxRuleResponse, error) {
	rule, err := billing.NewTaxRule(req.Name, req.Percentage)
	if err != nil {
		return nil, err
	}
	if err := s.taxRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return toTaxRuleResponse(rule), nil
}

// SetDiscountRuleActive toggles a discount rule
func (s *RuleService) SetDiscountRuleActive(ctx context.Context, ruleID uuid.UUID, active bool) (*DiscountRuleResponse, error) {
	rule, err := s.discountRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	rule.SetActive(active)
	if err := s.discountRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return toDiscountRuleResponse(rule), nil
}

// SetTaxRuleActive toggles a tax rule
func (s *RuleService) SetTaxRuleActive(ctx context.Context, ruleID uuid.UUID, active bool) (*TaxRuleResponse, error) {
	rule, err := s.taxRepo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	rule.SetActive(active)
	if err := s.taxRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return toTaxRuleResponse(rule), nil
}

// ListDiscountRules lists all discount rules
func (s *RuleService) ListDiscountRules(ctx context.Context) ([]DiscountRuleResponse, error) {
	rules, err := s.discountRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]DiscountRuleResponse, len(rules))
	for i := range rules {
		responses[i] = *toDiscountRuleResponse(&rules[i])
	}
	return responses, nil
}

// ListTaxRules lists all tax rules
func (s *RuleService) ListTaxRules(ctx context.Context) ([]TaxRuleResponse, error) {
	rules, err := s.taxRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]TaxRuleResponse, len(rules))
	for i := range rules {
		responses[i] = *toTaxRuleResponse(&rules[i])
	}
	return responses, nil
}

// DeleteDiscountRule removes a discount rule
func (s *RuleService) DeleteDiscountRule(ctx context.Context, ruleID uuid.UUID) error {
	return s.discountRepo.Delete(ctx, ruleID)
}

// DeleteTaxRule removes a tax rule
func (s *RuleService) DeleteTaxRule(ctx context.Context, ruleID uuid.UUID) error {
	return s.taxRepo.Delete(ctx, ruleID)
}

func toDiscountRuleResponse(rule *billing.DiscountRule) *DiscountRuleResponse {
	return &DiscountRuleResponse{
		ID:        rule.ID,
		Name:      rule.Name,
		Value:     rule.Value,
		Kind:      string(rule.Kind),
		Active:    rule.Active,
		CreatedAt: rule.CreatedAt,
	}
}

func toTaxRuleResponse(rule *billing.TaxRule) *TaxRuleResponse {
	return &TaxRuleResponse{
		ID:         rule.ID,
		Name:       rule.Name,
		Percentage: rule.Percentage,
		Active:     rule.Active,
		CreatedAt:  rule.CreatedAt,
	}
}
