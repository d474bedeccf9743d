package pricing_test

import (
	"testing"

	"github.com/fas-supply/backend-wholesale/internal/pricing"
	"github.com/fas-supply/backend-wholesale/internal/vendor"
)

func TestParseTier(t *testing.T) {
	for _, valid := range []string{"standard", "preferred", "platinum", "custom"} {
		if _, ok := pricing.ParseTier(valid); !ok {
			t.Fatalf("%q should parse", valid)
		}
	}
	for _, invalid := range []string{"", "Standard", "gold", " preferred"} {
		if _, ok := pricing.ParseTier(invalid); ok {
			t.Fatalf("%q should not parse", invalid)
		}
	}
}

func TestResolveSelection(t *testing.T) {
	discount := dec("25")
	customVendor := &vendor.Vendor{PricingTier: "custom", CustomDiscountPercentage: &discount}

	cases := []struct {
		name         string
		v            *vendor.Vendor
		explicit     string
		wantTier     pricing.Tier
		wantDiscount bool
	}{
		{"explicit valid tier wins", customVendor, "platinum", pricing.TierPlatinum, false},
		{"explicit invalid falls back to vendor tier", customVendor, "gold", pricing.TierCustom, true},
		{"vendor tier when no explicit", &vendor.Vendor{PricingTier: "preferred"}, "", pricing.TierPreferred, false},
		{"standard when vendor tier invalid", &vendor.Vendor{PricingTier: "vip"}, "", pricing.TierStandard, false},
		{"standard for nil vendor", nil, "", pricing.TierStandard, false},
		{"explicit custom picks up vendor discount", customVendor, "custom", pricing.TierCustom, true},
		{"explicit custom without vendor has no discount", nil, "custom", pricing.TierCustom, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel := pricing.ResolveSelection(tc.v, tc.explicit)
			if sel.Tier != tc.wantTier {
				t.Fatalf("tier = %s, want %s", sel.Tier, tc.wantTier)
			}
			if (sel.CustomDiscount != nil) != tc.wantDiscount {
				t.Fatalf("custom discount presence = %v, want %v", sel.CustomDiscount != nil, tc.wantDiscount)
			}
		})
	}
}
