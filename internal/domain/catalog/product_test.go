package catalog

import (
	"testing"

	"github.com/billfold/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	product, err := NewProduct("Widget", uuid.New(), decimal.NewFromInt(60), decimal.NewFromInt(100), 5)
	require.NoError(t, err)
	return product
}

func TestNewProduct(t *testing.T) {
	categoryID := uuid.New()
	product, err := NewProduct("Widget", categoryID, decimal.NewFromInt(60), decimal.NewFromInt(100), 5)
	require.NoError(t, err)

	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, categoryID, product.CategoryID)
	assert.Zero(t, product.QuantityInStock, "new products start at zero stock")
	assert.Equal(t, 5, product.ReorderLevel)
	assert.Equal(t, 1, product.Version)
}

func TestNewProduct_Validation(t *testing.T) {
	categoryID := uuid.New()
	price := decimal.NewFromInt(10)

	tests := []struct {
		name string
		fn   func() (*Product, error)
	}{
		{"empty name", func() (*Product, error) {
			return NewProduct("", categoryID, price, price, 0)
		}},
		{"nil category", func() (*Product, error) {
			return NewProduct("Widget", uuid.Nil, price, price, 0)
		}},
		{"negative buying price", func() (*Product, error) {
			return NewProduct("Widget", categoryID, decimal.NewFromInt(-1), price, 0)
		}},
		{"negative unit price", func() (*Product, error) {
			return NewProduct("Widget", categoryID, price, decimal.NewFromInt(-1), 0)
		}},
		{"negative reorder level", func() (*Product, error) {
			return NewProduct("Widget", categoryID, price, price, -1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
		})
	}
}

func TestProduct_ApplyStockChange(t *testing.T) {
	product := newTestProduct(t)

	require.NoError(t, product.ApplyStockChange(20))
	assert.Equal(t, 20, product.QuantityInStock)

	require.NoError(t, product.ApplyStockChange(-8))
	assert.Equal(t, 12, product.QuantityInStock)
}

func TestProduct_ApplyStockChange_ZeroDelta(t *testing.T) {
	product := newTestProduct(t)

	err := product.ApplyStockChange(0)
	assert.ErrorIs(t, err, shared.ErrInvalidAdjustment)
}

func TestProduct_ApplyStockChange_InsufficientStock(t *testing.T) {
	product := newTestProduct(t)
	require.NoError(t, product.ApplyStockChange(5))

	err := product.ApplyStockChange(-6)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, 5, product.QuantityInStock, "a rejected change leaves the projection untouched")
}

func TestProduct_ApplyStockChange_LowStockEvent(t *testing.T) {
	product := newTestProduct(t)
	require.NoError(t, product.ApplyStockChange(20))
	product.ClearDomainEvents()

	// 20 -> 6: still above the reorder level of 5
	require.NoError(t, product.ApplyStockChange(-14))
	assert.Empty(t, product.GetDomainEvents())

	// 6 -> 5: crosses to at-or-below the reorder level
	require.NoError(t, product.ApplyStockChange(-1))
	require.Len(t, product.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProductLowStock, product.GetDomainEvents()[0].EventType())

	// already low: no repeat event
	product.ClearDomainEvents()
	require.NoError(t, product.ApplyStockChange(-1))
	assert.Empty(t, product.GetDomainEvents())
}

func TestProduct_IsLowStock(t *testing.T) {
	product := newTestProduct(t)
	assert.True(t, product.IsLowStock(), "zero stock is at or below any reorder level")

	require.NoError(t, product.ApplyStockChange(6))
	assert.False(t, product.IsLowStock())

	require.NoError(t, product.ApplyStockChange(-1))
	assert.True(t, product.IsLowStock())
}

func TestProduct_CanFulfill(t *testing.T) {
	product := newTestProduct(t)
	require.NoError(t, product.ApplyStockChange(10))

	assert.True(t, product.CanFulfill(10))
	assert.False(t, product.CanFulfill(11))
	assert.False(t, product.CanFulfill(0))
	assert.False(t, product.CanFulfill(-3))
}

func TestProduct_UpdateDetails(t *testing.T) {
	product := newTestProduct(t)
	require.NoError(t, product.ApplyStockChange(7))
	newCategory := uuid.New()

	err := product.UpdateDetails("Gadget", newCategory, decimal.NewFromInt(120), 3, "updated")
	require.NoError(t, err)

	assert.Equal(t, "Gadget", product.Name)
	assert.Equal(t, newCategory, product.CategoryID)
	assert.Equal(t, 3, product.ReorderLevel)
	assert.Equal(t, 7, product.QuantityInStock, "catalog edits never touch the quantity projection")

	err = product.UpdateDetails("", newCategory, decimal.NewFromInt(120), 3, "")
	assert.Error(t, err)
}

func TestProduct_UpdateBuyingPrice(t *testing.T) {
	product := newTestProduct(t)

	require.NoError(t, product.UpdateBuyingPrice(decimal.NewFromInt(75)))
	assert.True(t, product.BuyingPrice.Equal(decimal.NewFromInt(75)))

	err := product.UpdateBuyingPrice(decimal.NewFromInt(-1))
	assert.Error(t, err)
}
