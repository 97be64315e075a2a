package billing

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Totals holds the four computed amounts of an invoice. Amounts are kept at
// full precision; rounding to two fractional digits happens only at
// presentation time.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ZeroTotals returns an all-zero Totals
func ZeroTotals() Totals {
	return Totals{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}
}

// ComputeTotals computes subtotal, discount, tax and grand total for a set of
// line items under the given active rules. It is a pure function: the same
// inputs always produce the same outputs, and rule order does not matter
// because rules are summed rather than chained.
//
// Discount is always applied before tax - the taxable base is
// subtotal minus discount - and the aggregate discount is clamped so it can
// never exceed the subtotal.
func ComputeTotals(items []InvoiceItem, discounts []DiscountRule, taxes []TaxRule) Totals {
	subtotal := decimal.Zero
	for idx := range items {
		subtotal = subtotal.Add(items[idx].Subtotal())
	}

	discount := decimal.Zero
	for idx := range discounts {
		rule := &discounts[idx]
		if !rule.Active {
			continue
		}
		switch rule.Kind {
		case DiscountKindFixed:
			discount = discount.Add(rule.Value)
		case DiscountKindPercent:
			discount = discount.Add(subtotal.Mul(rule.Value).Div(oneHundred))
		}
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	taxableBase := subtotal.Sub(discount)

	tax := decimal.Zero
	for idx := range taxes {
		rule := &taxes[idx]
		if !rule.Active {
			continue
		}
		tax = tax.Add(taxableBase.Mul(rule.Percentage).Div(oneHundred))
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    taxableBase.Add(tax),
	}
}
