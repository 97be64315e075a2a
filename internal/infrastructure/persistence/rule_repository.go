package persistence

import (
	"context"
	"errors"

	"github.com/billfold/backend/internal/domain/billing"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDiscountRuleRepository implements billing.DiscountRuleRepository using GORM
type GormDiscountRuleRepository struct {
	db *gorm.DB
}

// NewGormDiscountRuleRepository creates a new GormDiscountRuleRepository
func NewGormDiscountRuleRepository(db *gorm.DB) *GormDiscountRuleRepository {
	return &GormDiscountRuleRepository{db: db}
}

// FindByID finds a discount rule by its ID
func (r *GormDiscountRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.DiscountRule, error) {
	var rule billing.DiscountRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindAll finds all discount rules
func (r *GormDiscountRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.DiscountRule, error) {
	var rules []billing.DiscountRule
	query := r.db.WithContext(ctx).Model(&billing.DiscountRule{}).Order("name ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindActive finds all active discount rules
func (r *GormDiscountRuleRepository) FindActive(ctx context.Context) ([]billing.DiscountRule, error) {
	var rules []billing.DiscountRule
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save creates or updates a discount rule
func (r *GormDiscountRuleRepository) Save(ctx context.Context, rule *billing.DiscountRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete deletes a discount rule
func (r *GormDiscountRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.DiscountRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormTaxRuleRepository implements billing.TaxRuleRepository using GORM
type GormTaxRuleRepository struct {
	db *gorm.DB
}

// NewGormTaxRuleRepository creates a new GormTaxRuleRepository
func NewGormTaxRuleRepository(db *gorm.DB) *GormTaxRuleRepository {
	return &GormTaxRuleRepository{db: db}
}

// FindByID finds a tax rule by its ID
func (r *GormTaxRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.TaxRule, error) {
	var rule billing.TaxRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindAll finds all tax rules
func (r *GormTaxRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.TaxRule, error) {
	var rules []billing.TaxRule
	query := r.db.WithContext(ctx).Model(&billing.TaxRule{}).Order("name ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindActive finds all active tax rules
func (r *GormTaxRuleRepository) FindActive(ctx context.Context) ([]billing.TaxRule, error) {
	var rules []billing.TaxRule
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save creates or updates a tax rule
func (r *GormTaxRuleRepository) Save(ctx context.Context, rule *billing.TaxRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete deletes a tax rule
func (r *GormTaxRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.TaxRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure rule repositories implement their interfaces
var (
	_ billing.DiscountRuleRepository = (*GormDiscountRuleRepository)(nil)
	_ billing.TaxRuleRepository      = (*GormTaxRuleRepository)(nil)
)
