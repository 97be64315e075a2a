package billing

import (
	"context"
	"time"

	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its unique invoice number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindAll finds invoices matching the filter, items not loaded
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByDateRange finds invoices dated within [start, end], most recent
	// first. A nil status matches every status.
	FindByDateRange(ctx context.Context, start, end time.Time, status *InvoiceStatus, filter shared.Filter) ([]Invoice, error)

	// SaveWithItems persists the invoice and replaces its line items
	SaveWithItems(ctx context.Context, invoice *Invoice) error

	// SaveWithVersion updates the invoice header guarded by its optimistic
	// version. Returns shared.ErrConcurrencyConflict on version mismatch.
	SaveWithVersion(ctx context.Context, invoice *Invoice) error

	// SumPaidTotalByDateRange sums the grand totals of PAID invoices dated
	// within [start, end]
	SumPaidTotalByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// DiscountRuleRepository defines the interface for discount rule persistence
type DiscountRuleRepository interface {
	// FindByID finds a discount rule by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DiscountRule, error)

	// FindAll finds all discount rules
	FindAll(ctx context.Context, filter shared.Filter) ([]DiscountRule, error)

	// FindActive finds all active discount rules
	FindActive(ctx context.Context) ([]DiscountRule, error)

	// Save creates or updates a discount rule
	Save(ctx context.Context, rule *DiscountRule) error

	// Delete deletes a discount rule
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaxRuleRepository defines the interface for tax rule persistence
type TaxRuleRepository interface {
	// FindByID finds a tax rule by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TaxRule, error)

	// FindAll finds all tax rules
	FindAll(ctx context.Context, filter shared.Filter) ([]TaxRule, error)

	// FindActive finds all active tax rules
	FindActive(ctx context.Context) ([]TaxRule, error)

	// Save creates or updates a tax rule
	Save(ctx context.Context, rule *TaxRule) error

	// Delete deletes a tax rule
	Delete(ctx context.Context, id uuid.UUID) error
}
