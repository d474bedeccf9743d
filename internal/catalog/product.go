package catalog

import "github.com/shopspring/decimal"

// TierPrice is a vendor-negotiated price entry keyed by tier label. Entries
// take precedence over the named wholesale price fields, in list order.
type TierPrice struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// ProductPricing is the read-only wholesale pricing snapshot of a catalog
// product. The catalog itself is owned by an external process.
type ProductPricing struct {
	ID                 string
	Name               string
	SKU                string
	Category           string
	BasePrice          decimal.Decimal
	WholesaleStandard  *decimal.Decimal
	WholesalePreferred *decimal.Decimal
	WholesalePlatinum  *decimal.Decimal
	CustomTierPrices   []TierPrice
	WholesaleAvailable bool
	Active             bool
	InStock            bool
}
