package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fas-supply/backend-wholesale/internal/vendor"
)

// Tier is a negotiated wholesale pricing tier.
type Tier string

// The four valid pricing tiers.
const (
	TierStandard  Tier = "standard"
	TierPreferred Tier = "preferred"
	TierPlatinum  Tier = "platinum"
	TierCustom    Tier = "custom"
)

// Default discount percentages applied to the base price when a product has no
// explicit wholesale price for the tier.
var defaultDiscounts = map[Tier]decimal.Decimal{
	TierStandard:  decimal.NewFromInt(20),
	TierPreferred: decimal.NewFromInt(30),
	TierPlatinum:  decimal.NewFromInt(40),
}

// ParseTier reports whether the given string is one of the four valid tiers.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierStandard, TierPreferred, TierPlatinum, TierCustom:
		return Tier(s), true
	default:
		return "", false
	}
}

// Selection is the effective tier for a request, with the vendor's negotiated
// discount when the tier is custom. A nil CustomDiscount means no discount is
// configured; downstream pricing treats that as 0%.
type Selection struct {
	Tier           Tier
	CustomDiscount *decimal.Decimal
}

// ResolveSelection picks the effective tier for a vendor. An explicitly
// requested tier wins when it is valid; invalid values are ignored rather than
// rejected. Otherwise the vendor's own tier applies, falling back to standard.
func ResolveSelection(v *vendor.Vendor, explicit string) Selection {
	tier := TierStandard
	if t, ok := ParseTier(explicit); ok {
		tier = t
	} else if v != nil {
		if t, ok := ParseTier(v.PricingTier); ok {
			tier = t
		}
	}
	sel := Selection{Tier: tier}
	if tier == TierCustom && v != nil {
		sel.CustomDiscount = v.CustomDiscountPercentage
	}
	return sel
}
