package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fas-supply/backend-wholesale/internal/catalog"
	"github.com/fas-supply/backend-wholesale/internal/common"
)

// LineInput is a raw cart line before normalization. Quantity mirrors the
// wire format: absent, fractional, or out-of-range values are all possible.
type LineInput struct {
	ProductID string
	Quantity  *float64
}

// PricedItem is a cart line after tier-based unit price resolution. It carries
// the authoritative unit price plus the raw standard/preferred reference
// prices for display.
type PricedItem struct {
	ProductID      string           `json:"productId"`
	Name           string           `json:"name"`
	SKU            string           `json:"sku,omitempty"`
	Quantity       int64            `json:"quantity"`
	UnitPrice      decimal.Decimal  `json:"unitPrice"`
	LineTotal      decimal.Decimal  `json:"lineTotal"`
	EffectiveTier  Tier             `json:"effectiveTier"`
	InStock        bool             `json:"inStock"`
	PriceStandard  *decimal.Decimal `json:"wholesalePriceStandard,omitempty"`
	PricePreferred *decimal.Decimal `json:"wholesalePricePreferred,omitempty"`
}

// CatalogSource batch-fetches wholesale pricing snapshots by product id.
type CatalogSource interface {
	GetWholesalePricing(ctx context.Context, ids []string) ([]catalog.ProductPricing, error)
}

// Engine turns cart lines and a tier selection into priced line items.
type Engine struct {
	Catalog CatalogSource
}

// PriceCart prices every cart line against the current catalog snapshot.
// Pricing is all-or-nothing: any line that cannot be priced fails the whole
// operation so the caller never sees a partially priced cart. The result is a
// deterministic function of (catalog snapshot, lines, selection).
func (e Engine) PriceCart(ctx context.Context, lines []LineInput, sel Selection) ([]PricedItem, error) {
	ids := dedupeIDs(lines)
	if len(lines) == 0 || len(ids) == 0 {
		return nil, common.ValidationError("cart is empty", nil)
	}

	products, err := e.Catalog.GetWholesalePricing(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch wholesale pricing: %w", err)
	}
	byID := make(map[string]catalog.ProductPricing, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]PricedItem, 0, len(lines))
	for _, line := range lines {
		id := strings.TrimSpace(line.ProductID)
		if id == "" {
			return nil, common.ValidationError("product id is required", nil)
		}
		product, ok := byID[id]
		if !ok {
			return nil, common.NotFoundError(fmt.Sprintf("product %s not found or not available for wholesale", id), nil)
		}
		qty := NormalizeQuantity(line.Quantity)
		unit := UnitPrice(product, sel)
		items = append(items, PricedItem{
			ProductID:      product.ID,
			Name:           product.Name,
			SKU:            product.SKU,
			Quantity:       qty,
			UnitPrice:      unit,
			LineTotal:      unit.Mul(decimal.NewFromInt(qty)).Round(2),
			EffectiveTier:  sel.Tier,
			InStock:        product.InStock,
			PriceStandard:  product.WholesaleStandard,
			PricePreferred: product.WholesalePreferred,
		})
	}
	return items, nil
}

// NormalizeQuantity clamps a requested quantity to a positive whole number.
// Missing, non-finite, non-positive, and fractional values all floor-then-clamp
// to a minimum of 1.
func NormalizeQuantity(q *float64) int64 {
	if q == nil {
		return 1
	}
	v := *q
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	n := int64(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}

func dedupeIDs(lines []LineInput) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		id := strings.TrimSpace(line.ProductID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
