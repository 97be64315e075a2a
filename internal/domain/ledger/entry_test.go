package ledger

import (
	"testing"

	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionKind_IsValid(t *testing.T) {
	assert.True(t, KindPurchase.IsValid())
	assert.True(t, KindSale.IsValid())
	assert.True(t, KindAdjustment.IsValid())
	assert.True(t, KindReturn.IsValid())
	assert.False(t, TransactionKind("TRANSFER").IsValid())
	assert.False(t, TransactionKind("").IsValid())
}

func TestTransactionKind_AllowsDelta(t *testing.T) {
	tests := []struct {
		kind    TransactionKind
		delta   int
		allowed bool
	}{
		{KindPurchase, 10, true},
		{KindPurchase, -10, false},
		{KindSale, -5, true},
		{KindSale, 5, false},
		{KindAdjustment, 3, true},
		{KindAdjustment, -3, true},
		{KindAdjustment, 0, false},
		{KindReturn, 2, true},
		{KindReturn, -2, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.kind.AllowsDelta(tt.delta),
			"%s with delta %d", tt.kind, tt.delta)
	}
}

func TestNewStockLedgerEntry_Purchase(t *testing.T) {
	productID := uuid.New()
	cost := decimal.NewFromFloat(12.50)

	entry, err := NewStockLedgerEntry(productID, 10, KindPurchase, &cost)
	require.NoError(t, err)

	assert.Equal(t, productID, entry.ProductID)
	assert.Equal(t, 10, entry.ChangeAmount)
	assert.True(t, entry.IsIncrease())
	require.NotNil(t, entry.UnitCost)
	assert.True(t, entry.UnitCost.Equal(cost))
	require.NotNil(t, entry.TotalCost)
	assert.True(t, entry.TotalCost.Equal(decimal.NewFromInt(125)))
	assert.False(t, entry.Timestamp.IsZero())
}

func TestNewStockLedgerEntry_PurchaseRequiresUnitCost(t *testing.T) {
	_, err := NewStockLedgerEntry(uuid.New(), 10, KindPurchase, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidAdjustment)

	negative := decimal.NewFromInt(-1)
	_, err = NewStockLedgerEntry(uuid.New(), 10, KindPurchase, &negative)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_COST", domainErr.Code)
}

func TestNewStockLedgerEntry_UnitCostOnlyOnPurchase(t *testing.T) {
	cost := decimal.NewFromInt(5)
	for _, kind := range []TransactionKind{KindSale, KindAdjustment, KindReturn} {
		delta := 1
		if kind == KindSale {
			delta = -1
		}
		_, err := NewStockLedgerEntry(uuid.New(), delta, kind, &cost)
		assert.Error(t, err, "kind %s must not carry a unit cost", kind)
	}
}

func TestNewStockLedgerEntry_DeltaSignPerKind(t *testing.T) {
	_, err := NewStockLedgerEntry(uuid.New(), -3, KindReturn, nil)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DELTA", domainErr.Code)

	_, err = NewStockLedgerEntry(uuid.New(), 3, KindSale, nil)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DELTA", domainErr.Code)
}

func TestNewStockLedgerEntry_ZeroDelta(t *testing.T) {
	_, err := NewStockLedgerEntry(uuid.New(), 0, KindAdjustment, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidAdjustment)
}

func TestNewStockLedgerEntry_NilProduct(t *testing.T) {
	_, err := NewStockLedgerEntry(uuid.Nil, 1, KindAdjustment, nil)
	assert.Error(t, err)
}

func TestStockLedgerEntry_WithActorAndNote(t *testing.T) {
	actorID := uuid.New()

	entry, err := NewStockLedgerEntry(uuid.New(), -2, KindSale, nil)
	require.NoError(t, err)

	entry.WithActor(actorID).WithNote("damaged in transit")
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, actorID, *entry.ActorID)
	assert.Equal(t, "damaged in transit", entry.Note)
	assert.False(t, entry.IsIncrease())
}

func TestNewStockLedgerEntry_TotalCostUsesAbsoluteDelta(t *testing.T) {
	cost := decimal.NewFromInt(4)
	entry, err := NewStockLedgerEntry(uuid.New(), 25, KindPurchase, &cost)
	require.NoError(t, err)
	assert.True(t, entry.TotalCost.Equal(decimal.NewFromInt(100)))
}
