package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), USD)
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))

	_, err = NewMoney(decimal.NewFromInt(100), "")
	assert.Error(t, err)
}

func TestMoney_AddSub(t *testing.T) {
	a := NewMoneyINR(decimal.NewFromInt(100))
	b := NewMoneyINR(decimal.NewFromFloat(0.50))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(100.50)))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(99.50)))

	usd, err := NewMoney(decimal.NewFromInt(1), USD)
	require.NoError(t, err)
	_, err = a.Add(usd)
	assert.Error(t, err, "currency mismatch must fail")
	_, err = a.Sub(usd)
	assert.Error(t, err)
}

func TestMoney_MulInt(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromFloat(19.99))
	total := m.MulInt(3)
	assert.True(t, total.Amount().Equal(decimal.NewFromFloat(59.97)))
	assert.Equal(t, INR, total.Currency())
}

func TestMoney_Display(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"1003", "₹1003.00"},
		{"1234.5", "₹1234.50"},
		{"0", "₹0.00"},
		// banker's rounding at presentation time
		{"2.345", "₹2.34"},
		{"2.355", "₹2.36"},
	}
	for _, tt := range tests {
		m, err := NewMoneyINRFromString(tt.amount)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, m.Display())
	}
}

func TestMoney_DisplayOtherCurrencies(t *testing.T) {
	usd, err := NewMoney(decimal.NewFromInt(5), USD)
	require.NoError(t, err)
	assert.Equal(t, "$5.00", usd.Display())

	unknown, err := NewMoney(decimal.NewFromInt(5), Currency("JPY"))
	require.NoError(t, err)
	assert.Equal(t, "JPY5.00", unknown.Display())
}

func TestMoney_String(t *testing.T) {
	m, err := NewMoneyINRFromString("12.345")
	require.NoError(t, err)
	assert.Equal(t, "12.345 INR", m.String(), "String keeps full precision")
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroINR().IsZero())
	assert.True(t, NewMoneyINR(decimal.NewFromInt(1)).IsPositive())
	assert.True(t, NewMoneyINR(decimal.NewFromInt(-1)).IsNegative())
}

func TestMoney_Equal(t *testing.T) {
	a := NewMoneyINR(decimal.NewFromFloat(10.0))
	b := NewMoneyINR(decimal.NewFromInt(10))
	assert.True(t, a.Equal(b))

	usd, err := NewMoney(decimal.NewFromInt(10), USD)
	require.NoError(t, err)
	assert.False(t, a.Equal(usd))
}

func TestNewMoneyINRFromString_Invalid(t *testing.T) {
	_, err := NewMoneyINRFromString("not-a-number")
	assert.Error(t, err)
}
