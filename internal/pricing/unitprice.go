package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fas-supply/backend-wholesale/internal/catalog"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// UnitPrice resolves the effective wholesale unit price of a product for the
// given tier selection. It is a pure function of its inputs.
//
// Precedence: a custom tier-price entry whose label matches the tier wins
// outright; then the product's named wholesale price field for the tier; then
// the default tier discount off the base price; for the custom tier, the
// vendor's negotiated discount off the base price (absent discount means no
// discount). The result is always rounded to 2 decimals.
func UnitPrice(p catalog.ProductPricing, sel Selection) decimal.Decimal {
	label := string(sel.Tier)
	for _, tp := range p.CustomTierPrices {
		if strings.EqualFold(strings.TrimSpace(tp.Label), label) {
			return tp.Price.Round(2)
		}
	}

	switch sel.Tier {
	case TierStandard:
		if p.WholesaleStandard != nil {
			return p.WholesaleStandard.Round(2)
		}
	case TierPreferred:
		if p.WholesalePreferred != nil {
			return p.WholesalePreferred.Round(2)
		}
	case TierPlatinum:
		if p.WholesalePlatinum != nil {
			return p.WholesalePlatinum.Round(2)
		}
	}

	if sel.Tier == TierCustom {
		multiplier := one
		if d := sel.CustomDiscount; d != nil && !d.IsNegative() && d.LessThanOrEqual(hundred) {
			multiplier = one.Sub(d.Div(hundred))
		}
		return p.BasePrice.Mul(multiplier).Round(2)
	}

	discount := defaultDiscounts[sel.Tier]
	return p.BasePrice.Mul(one.Sub(discount.Div(hundred))).Round(2)
}
