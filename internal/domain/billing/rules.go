package billing

import (
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountKind distinguishes percentage discounts from fixed-amount ones
type DiscountKind string

const (
	DiscountKindPercent DiscountKind = "PERCENT"
	DiscountKindFixed   DiscountKind = "FIXED"
)

// IsValid checks if the kind is a valid DiscountKind
func (k DiscountKind) IsValid() bool {
	return k == DiscountKindPercent || k == DiscountKindFixed
}

// DiscountRule is an active-flagged pricing rule. All active rules apply
// simultaneously and are summed, not chained.
type DiscountRule struct {
	shared.BaseEntity
	Name   string          `gorm:"type:varchar(255);not null"`
	Value  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Kind   DiscountKind    `gorm:"type:varchar(10);not null"`
	Active bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (DiscountRule) TableName() string {
	return "discount_rules"
}

// NewDiscountRule creates a new active discount rule
func NewDiscountRule(name string, value decimal.Decimal, kind DiscountKind) (*DiscountRule, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Discount rule name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Discount kind must be PERCENT or FIXED")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Discount value cannot be negative")
	}
	return &DiscountRule{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Value:      value,
		Kind:       kind,
		Active:     true,
	}, nil
}

// SetActive toggles the rule's active flag
func (r *DiscountRule) SetActive(active bool) {
	r.Active = active
	r.Touch()
}

// TaxRule is an active-flagged percentage tax. All active rules apply
// simultaneously against the taxable base and are summed.
type TaxRule struct {
	shared.BaseEntity
	Name       string          `gorm:"type:varchar(255);not null"`
	Percentage decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Active     bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (TaxRule) TableName() string {
	return "tax_rules"
}

// NewTaxRule creates a new active tax rule
func NewTaxRule(name string, percentage decimal.Decimal) (*TaxRule, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tax rule name cannot be empty")
	}
	if percentage.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Tax percentage cannot be negative")
	}
	return &TaxRule{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Percentage: percentage,
		Active:     true,
	}, nil
}

// SetActive toggles the rule's active flag
func (r *TaxRule) SetActive(active bool) {
	r.Active = active
	r.Touch()
}
