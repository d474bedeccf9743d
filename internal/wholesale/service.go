package wholesale

import (
	"context"
	"net/url"

	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fas-supply/backend-wholesale/internal/catalog"
	"github.com/fas-supply/backend-wholesale/internal/common"
	"github.com/fas-supply/backend-wholesale/internal/obs"
	"github.com/fas-supply/backend-wholesale/internal/order"
	"github.com/fas-supply/backend-wholesale/internal/pricing"
	"github.com/fas-supply/backend-wholesale/internal/vendor"
)

// Item is a raw cart line from the request payload.
type Item struct {
	ProductID string   `json:"productId" validate:"required"`
	Quantity  *float64 `json:"quantity"`
}

// Request is the inbound pricing/order payload. Vendor identity may arrive
// explicitly or via the Authorization header.
type Request struct {
	Items       []Item   `json:"items" validate:"required,min=1,dive"`
	VendorID    string   `json:"vendorId"`
	VendorEmail string   `json:"vendorEmail"`
	PricingTier string   `json:"pricingTier"`
	Shipping    *float64 `json:"shipping"`
	TaxRate     *float64 `json:"taxRate"`
}

// VendorSummary identifies the resolved vendor in responses.
type VendorSummary struct {
	ID    string       `json:"id"`
	Tier  pricing.Tier `json:"tier"`
	Email string       `json:"email,omitempty"`
}

// Quote is a priced cart with its totals.
type Quote struct {
	Cart   []pricing.PricedItem `json:"cart"`
	Totals pricing.Totals       `json:"totals"`
	Vendor VendorSummary        `json:"vendor"`
}

// PlacedOrder is the order summary returned after placement.
type PlacedOrder struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"orderNumber"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Status         string          `json:"status"`
	WorkflowStatus string          `json:"workflowStatus"`
}

// OrderResult is the order placement response: the quote plus the order.
type OrderResult struct {
	Quote
	Order PlacedOrder `json:"order"`
}

// CatalogItem is a listing entry priced for the resolved vendor tier.
type CatalogItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Category      string          `json:"category,omitempty"`
	BasePrice     decimal.Decimal `json:"basePrice"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	EffectiveTier pricing.Tier    `json:"effectiveTier"`
	InStock       bool            `json:"inStock"`
}

// CatalogPage is the priced catalog listing response.
type CatalogPage struct {
	Items      []CatalogItem     `json:"items"`
	Pagination common.Pagination `json:"pagination"`
	Vendor     VendorSummary     `json:"vendor"`
}

// HistoryEntry summarises a past order for the history listing.
type HistoryEntry struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"orderNumber"`
	Status         string          `json:"status"`
	WorkflowStatus string          `json:"workflowStatus"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      string          `json:"createdAt"`
	Lines          []order.Line    `json:"lines"`
}

// HistoryPage is the order history response.
type HistoryPage struct {
	Orders     []HistoryEntry    `json:"orders"`
	Pagination common.Pagination `json:"pagination"`
	Vendor     VendorSummary     `json:"vendor"`
}

// Catalog is the slice of the catalog service the orchestrator consumes.
type Catalog interface {
	pricing.CatalogSource
	ParseListParams(values url.Values) (catalog.ListParams, error)
	ListWholesale(ctx context.Context, params catalog.ListParams) (catalog.ListResult, error)
}

// Orders is the slice of the order service the orchestrator consumes.
type Orders interface {
	Place(ctx context.Context, v *vendor.Vendor, items []pricing.PricedItem, totals pricing.Totals) (order.Order, error)
	History(ctx context.Context, vendorID string, page, perPage int) ([]order.Order, int64, error)
}

// Service runs the wholesale request pipeline: resolve vendor, resolve tier,
// price the cart, compute totals, and (for placement) persist the order.
type Service struct {
	Resolver vendor.Resolver
	Catalog  Catalog
	Orders   Orders
	Validate *validator.Validate
	Logger   zerolog.Logger
}

// PriceCart prices a cart for the resolved vendor without persisting anything.
func (s *Service) PriceCart(ctx context.Context, authorization string, req Request) (Quote, error) {
	quote, _, err := s.priceForVendor(ctx, authorization, req)
	countResult(obs.CartsPricedTotal, err)
	return quote, err
}

// PlaceOrder prices the cart and persists the order plus the ledger update.
// Payment capture happened upstream; this only records the paid order.
func (s *Service) PlaceOrder(ctx context.Context, authorization string, req Request) (OrderResult, error) {
	quote, v, err := s.priceForVendor(ctx, authorization, req)
	if err != nil {
		countResult(obs.OrdersPlacedTotal, err)
		return OrderResult{}, err
	}
	placed, err := s.Orders.Place(ctx, v, quote.Cart, quote.Totals)
	countResult(obs.OrdersPlacedTotal, err)
	if err != nil {
		s.Logger.Error().Err(err).Str("vendor_id", v.ID).Msg("place order")
		return OrderResult{}, common.DependencyUnavailable(err)
	}
	return OrderResult{
		Quote: quote,
		Order: PlacedOrder{
			ID:             placed.ID.String(),
			OrderNumber:    placed.OrderNumber,
			TotalAmount:    placed.Total,
			Status:         placed.Status,
			WorkflowStatus: placed.WorkflowStatus,
		},
	}, nil
}

// ListProducts returns the wholesale catalog priced for the vendor's tier.
func (s *Service) ListProducts(ctx context.Context, authorization string, query url.Values) (CatalogPage, error) {
	v, err := s.resolveVendor(ctx, authorization, "", "")
	if err != nil {
		return CatalogPage{}, err
	}
	sel := pricing.ResolveSelection(v, query.Get("pricingTier"))
	params, err := s.Catalog.ParseListParams(query)
	if err != nil {
		return CatalogPage{}, err
	}
	result, err := s.Catalog.ListWholesale(ctx, params)
	if err != nil {
		s.Logger.Error().Err(err).Msg("list wholesale products")
		return CatalogPage{}, common.DependencyUnavailable(err)
	}
	items := make([]CatalogItem, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, CatalogItem{
			ID:            p.ID,
			Name:          p.Name,
			SKU:           p.SKU,
			Category:      p.Category,
			BasePrice:     p.BasePrice.Round(2),
			UnitPrice:     pricing.UnitPrice(p, sel),
			EffectiveTier: sel.Tier,
			InStock:       p.InStock,
		})
	}
	return CatalogPage{
		Items:      items,
		Pagination: common.Pagination{Page: result.Page, PerPage: result.Limit, TotalItems: result.Total},
		Vendor:     vendorSummary(v, sel.Tier),
	}, nil
}

// OrderHistory returns a page of the vendor's past orders.
func (s *Service) OrderHistory(ctx context.Context, authorization string, page, perPage int) (HistoryPage, error) {
	v, err := s.resolveVendor(ctx, authorization, "", "")
	if err != nil {
		return HistoryPage{}, err
	}
	orders, total, err := s.Orders.History(ctx, v.ID, page, perPage)
	if err != nil {
		s.Logger.Error().Err(err).Str("vendor_id", v.ID).Msg("list order history")
		return HistoryPage{}, common.DependencyUnavailable(err)
	}
	entries := make([]HistoryEntry, 0, len(orders))
	for _, o := range orders {
		entries = append(entries, HistoryEntry{
			ID:             o.ID.String(),
			OrderNumber:    o.OrderNumber,
			Status:         o.Status,
			WorkflowStatus: o.WorkflowStatus,
			Total:          o.Total,
			CreatedAt:      o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Lines:          o.Lines,
		})
	}
	sel := pricing.ResolveSelection(v, "")
	return HistoryPage{
		Orders:     entries,
		Pagination: common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
		Vendor:     vendorSummary(v, sel.Tier),
	}, nil
}

func (s *Service) priceForVendor(ctx context.Context, authorization string, req Request) (Quote, *vendor.Vendor, error) {
	if s.Validate != nil {
		if err := s.Validate.Struct(req); err != nil {
			return Quote{}, nil, common.ValidationError("cart items are required", err)
		}
	}
	v, err := s.resolveVendor(ctx, authorization, req.VendorID, req.VendorEmail)
	if err != nil {
		return Quote{}, nil, err
	}
	sel := pricing.ResolveSelection(v, req.PricingTier)
	engine := pricing.Engine{Catalog: s.Catalog}
	lines := make([]pricing.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, pricing.LineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	cart, err := engine.PriceCart(ctx, lines, sel)
	if err != nil {
		if common.IsAppError(err) {
			return Quote{}, nil, err
		}
		s.Logger.Error().Err(err).Str("vendor_id", v.ID).Msg("price cart")
		return Quote{}, nil, common.DependencyUnavailable(err)
	}
	totals := pricing.CalculateTotals(cart, req.Shipping, req.TaxRate)
	return Quote{Cart: cart, Totals: totals, Vendor: vendorSummary(v, sel.Tier)}, v, nil
}

// resolveVendor authenticates the request. Store failures surface as
// dependency errors, never as "no match".
func (s *Service) resolveVendor(ctx context.Context, authorization, vendorID, vendorEmail string) (*vendor.Vendor, error) {
	v, err := s.Resolver.Resolve(ctx, vendor.ResolveInput{
		VendorID:      vendorID,
		VendorEmail:   vendorEmail,
		Authorization: authorization,
	})
	if err != nil {
		s.Logger.Error().Err(err).Msg("resolve vendor")
		return nil, common.DependencyUnavailable(err)
	}
	if v == nil {
		return nil, common.AuthenticationRequired()
	}
	if requested := vendor.CanonicalID(vendorID); requested != "" && requested != v.ID {
		return nil, common.AuthorizationMismatch()
	}
	return v, nil
}

func vendorSummary(v *vendor.Vendor, tier pricing.Tier) VendorSummary {
	if v == nil {
		return VendorSummary{Tier: tier}
	}
	return VendorSummary{ID: v.ID, Tier: tier, Email: v.BestEmail()}
}

func countResult(counter *prometheus.CounterVec, err error) {
	if counter == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	counter.WithLabelValues(result).Inc()
}
