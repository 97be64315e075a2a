package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/billfold/backend/internal/domain/ledger"
	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerRepository implements ledger.EntryRepository using GORM. Entries
// are append-only, so the repository never issues UPDATE or DELETE statements.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Create appends a new entry to the ledger
func (r *GormLedgerRepository) Create(ctx context.Context, entry *ledger.StockLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID finds an entry by its ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockLedgerEntry, error) {
	var entry ledger.StockLedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByProduct finds entries for a product, most recent first
func (r *GormLedgerRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]ledger.StockLedgerEntry, error) {
	var entries []ledger.StockLedgerEntry
	query := r.applyPagination(
		r.db.WithContext(ctx).Model(&ledger.StockLedgerEntry{}).
			Where("product_id = ?", productID),
		filter,
	)

	if err := query.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByDateRange finds entries within a date range, most recent first.
// A nil kind matches every kind.
func (r *GormLedgerRepository) FindByDateRange(ctx context.Context, start, end time.Time, kind *ledger.TransactionKind, filter shared.Filter) ([]ledger.StockLedgerEntry, error) {
	var entries []ledger.StockLedgerEntry
	query := r.db.WithContext(ctx).Model(&ledger.StockLedgerEntry{}).
		Where("timestamp >= ? AND timestamp <= ?", start, end)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}
	query = r.applyPagination(query, filter)

	if err := query.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindRecent returns the most recent entries ordered by timestamp descending
func (r *GormLedgerRepository) FindRecent(ctx context.Context, limit int) ([]ledger.StockLedgerEntry, error) {
	var entries []ledger.StockLedgerEntry
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumChangeByProduct sums all entry deltas for a product
func (r *GormLedgerRepository) SumChangeByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&ledger.StockLedgerEntry{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(change_amount), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return int(sum), nil
}

// SumPurchaseCostByDateRange sums the total cost of PURCHASE entries in a date range
func (r *GormLedgerRepository) SumPurchaseCostByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&ledger.StockLedgerEntry{}).
		Where("kind = ? AND timestamp >= ? AND timestamp <= ?", ledger.KindPurchase, start, end).
		Select("COALESCE(SUM(total_cost), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// CountByProduct counts entries for a product
func (r *GormLedgerRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ledger.StockLedgerEntry{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLedgerRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormLedgerRepository implements EntryRepository
var _ ledger.EntryRepository = (*GormLedgerRepository)(nil)
