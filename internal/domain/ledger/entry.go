package ledger

import (
	"time"

	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind classifies a stock movement. The four kinds form a closed
// set; each carries its own field requirements (only PURCHASE records a unit
// cost).
type TransactionKind string

const (
	// KindPurchase represents stock bought in; the delta is positive and the
	// entry records the unit purchase cost
	KindPurchase TransactionKind = "PURCHASE"
	// KindSale represents stock sold through an invoice; the delta is negative
	KindSale TransactionKind = "SALE"
	// KindAdjustment represents a manual correction; the delta may carry
	// either sign
	KindAdjustment TransactionKind = "ADJUSTMENT"
	// KindReturn represents stock restored by a cancelled settlement; the
	// delta is positive
	KindReturn TransactionKind = "RETURN"
)

// String returns the string representation of TransactionKind
func (k TransactionKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is one of the four enumerated kinds
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindPurchase, KindSale, KindAdjustment, KindReturn:
		return true
	}
	return false
}

// AllowsDelta reports whether the signed delta is legal for this kind
func (k TransactionKind) AllowsDelta(delta int) bool {
	switch k {
	case KindPurchase, KindReturn:
		return delta > 0
	case KindSale:
		return delta < 0
	case KindAdjustment:
		return delta != 0
	}
	return false
}

// RequiresUnitCost returns true if entries of this kind must carry a unit cost
func (k TransactionKind) RequiresUnitCost() bool {
	return k == KindPurchase
}

// StockLedgerEntry is an immutable record of one signed stock-quantity
// change. Entries are append-only: once created they are never updated or
// deleted, and for any product the sum of its entry deltas equals the
// product's current quantity projection.
type StockLedgerEntry struct {
	shared.BaseEntity
	ProductID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_ledger_product_time,priority:1"`
	ChangeAmount int              `gorm:"not null"` // positive = increase, negative = decrease
	Kind         TransactionKind  `gorm:"type:varchar(20);not null;index"`
	Timestamp    time.Time        `gorm:"type:timestamptz;not null;index:idx_ledger_product_time,priority:2"`
	UnitCost     *decimal.Decimal `gorm:"type:decimal(18,4)"` // PURCHASE only
	TotalCost    *decimal.Decimal `gorm:"type:decimal(18,4)"` // UnitCost * |ChangeAmount|
	ActorID      *uuid.UUID       `gorm:"type:uuid;index"`
	Note         string           `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (StockLedgerEntry) TableName() string {
	return "stock_ledger_entries"
}

// NewStockLedgerEntry creates a new ledger entry. The delta must be non-zero
// and legal for the kind; PURCHASE entries must carry a non-negative unit
// cost and no other kind may carry one.
func NewStockLedgerEntry(productID uuid.UUID, delta int, kind TransactionKind, unitCost *decimal.Decimal) (*StockLedgerEntry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid transaction kind")
	}
	if delta == 0 {
		return nil, shared.ErrInvalidAdjustment
	}
	if !kind.AllowsDelta(delta) {
		return nil, shared.NewDomainError("INVALID_DELTA", "Delta sign not allowed for transaction kind "+kind.String())
	}
	if kind.RequiresUnitCost() {
		if unitCost == nil {
			return nil, shared.ErrInvalidAdjustment
		}
		if unitCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
		}
	} else if unitCost != nil {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost is only recorded for PURCHASE entries")
	}

	entry := &StockLedgerEntry{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		ChangeAmount: delta,
		Kind:         kind,
		Timestamp:    time.Now(),
	}

	if unitCost != nil {
		cost := *unitCost
		total := cost.Mul(decimal.NewFromInt(int64(abs(delta))))
		entry.UnitCost = &cost
		entry.TotalCost = &total
	}

	return entry, nil
}

// WithActor records the user who performed the movement
func (e *StockLedgerEntry) WithActor(actorID uuid.UUID) *StockLedgerEntry {
	e.ActorID = &actorID
	return e
}

// WithNote attaches a free-text note
func (e *StockLedgerEntry) WithNote(note string) *StockLedgerEntry {
	e.Note = note
	return e
}

// IsIncrease returns true for a positive delta
func (e *StockLedgerEntry) IsIncrease() bool {
	return e.ChangeAmount > 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
