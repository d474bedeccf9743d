package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Totals is the derived money snapshot for a priced cart. Values are only
// persisted as part of an order document.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// CalculateTotals derives subtotal, tax, shipping, and total from priced
// lines. Shipping applies only when finite and positive; tax only when the
// rate is finite and positive. Pure and order-independent: permuting the items
// never changes the result.
func CalculateTotals(items []PricedItem, shipping, taxRate *float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	subtotal = subtotal.Round(2)

	ship := decimal.Zero
	if shipping != nil && isFinite(*shipping) && *shipping > 0 {
		ship = decimal.NewFromFloat(*shipping)
	}
	tax := decimal.Zero
	if taxRate != nil && isFinite(*taxRate) && *taxRate > 0 {
		tax = subtotal.Mul(decimal.NewFromFloat(*taxRate)).Round(2)
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: ship,
		Total:    subtotal.Add(tax).Add(ship).Round(2),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
