package ledger

import (
	"context"
	"time"

	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryRepository defines the interface for ledger persistence. The ledger
// is append-only: the interface offers no update or delete operations.
type EntryRepository interface {
	// Create appends a new entry to the ledger
	Create(ctx context.Context, entry *StockLedgerEntry) error

	// FindByID finds an entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLedgerEntry, error)

	// FindByProduct finds entries for a product, most recent first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockLedgerEntry, error)

	// FindByDateRange finds entries within a date range, most recent first.
	// A nil kind matches every kind.
	FindByDateRange(ctx context.Context, start, end time.Time, kind *TransactionKind, filter shared.Filter) ([]StockLedgerEntry, error)

	// FindRecent returns the most recent entries ordered by timestamp descending
	FindRecent(ctx context.Context, limit int) ([]StockLedgerEntry, error)

	// SumChangeByProduct sums all entry deltas for a product. Used to verify
	// the reconciliation invariant against the quantity projection.
	SumChangeByProduct(ctx context.Context, productID uuid.UUID) (int, error)

	// SumPurchaseCostByDateRange sums the total cost of PURCHASE entries in a
	// date range
	SumPurchaseCostByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error)

	// CountByProduct counts entries for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
