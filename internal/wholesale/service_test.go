package wholesale_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"testing"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fas-supply/backend-wholesale/internal/catalog"
	"github.com/fas-supply/backend-wholesale/internal/common"
	"github.com/fas-supply/backend-wholesale/internal/order"
	"github.com/fas-supply/backend-wholesale/internal/pricing"
	"github.com/fas-supply/backend-wholesale/internal/vendor"
	"github.com/fas-supply/backend-wholesale/internal/wholesale"
)

type stubVendorStore struct {
	vendor *vendor.Vendor
	err    error
}

func (s *stubVendorStore) FindByIDOrEmail(_ context.Context, _, _ string) (*vendor.Vendor, error) {
	return s.vendor, s.err
}

type stubCatalog struct {
	products []catalog.ProductPricing
	listErr  error
}

func (s *stubCatalog) GetWholesalePricing(_ context.Context, _ []string) ([]catalog.ProductPricing, error) {
	return s.products, nil
}

func (s *stubCatalog) ParseListParams(values url.Values) (catalog.ListParams, error) {
	return catalog.ListParams{Category: values.Get("category"), Page: 1, Limit: 20}, nil
}

func (s *stubCatalog) ListWholesale(_ context.Context, params catalog.ListParams) (catalog.ListResult, error) {
	if s.listErr != nil {
		return catalog.ListResult{}, s.listErr
	}
	return catalog.ListResult{Items: s.products, Total: int64(len(s.products)), Page: params.Page, Limit: params.Limit}, nil
}

type stubOrders struct {
	placed   []order.Order
	placeErr error
	history  []order.Order
}

func (s *stubOrders) Place(_ context.Context, v *vendor.Vendor, items []pricing.PricedItem, totals pricing.Totals) (order.Order, error) {
	if s.placeErr != nil {
		return order.Order{}, s.placeErr
	}
	o := order.Order{
		OrderNumber:    "FAS-123456",
		Status:         order.StatusPaid,
		WorkflowStatus: order.WorkflowRequested,
		VendorID:       v.ID,
		Total:          totals.Total,
	}
	s.placed = append(s.placed, o)
	return o, nil
}

func (s *stubOrders) History(_ context.Context, vendorID string, page, perPage int) ([]order.Order, int64, error) {
	return s.history, int64(len(s.history)), nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func floatPtr(v float64) *float64 { return &v }

func bearer(payload string) string {
	return "Bearer h." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".s"
}

func enabledVendor() *vendor.Vendor {
	return &vendor.Vendor{
		ID:            "vendor-1",
		CompanyName:   "Brew Lane Cafes",
		PricingTier:   "standard",
		PortalEnabled: true,
		PortalEmail:   "orders@brewlane.example",
	}
}

func newService(store *stubVendorStore, cat *stubCatalog, orders *stubOrders) *wholesale.Service {
	return &wholesale.Service{
		Resolver: vendor.Resolver{Store: store},
		Catalog:  cat,
		Orders:   orders,
		Validate: validator.New(),
		Logger:   zerolog.Nop(),
	}
}

func standardProduct() catalog.ProductPricing {
	return catalog.ProductPricing{
		ID:                "p1",
		Name:              "Espresso Beans",
		BasePrice:         dec("100"),
		WholesaleStandard: decPtr("80"),
		InStock:           true,
	}
}

func cartRequest() wholesale.Request {
	return wholesale.Request{
		Items: []wholesale.Item{{ProductID: "p1", Quantity: floatPtr(2)}},
	}
}

func appStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError got %v", err)
	}
	return appErr.HTTPStatus
}

func TestPriceCartResolvesVendorAndPrices(t *testing.T) {
	svc := newService(
		&stubVendorStore{vendor: enabledVendor()},
		&stubCatalog{products: []catalog.ProductPricing{standardProduct()}},
		&stubOrders{},
	)

	quote, err := svc.PriceCart(context.Background(), bearer(`{"sub":"vendor-1"}`), cartRequest())
	if err != nil {
		t.Fatalf("price cart: %v", err)
	}
	if quote.Vendor.ID != "vendor-1" || quote.Vendor.Tier != pricing.TierStandard {
		t.Fatalf("unexpected vendor summary %+v", quote.Vendor)
	}
	if len(quote.Cart) != 1 || !quote.Cart[0].LineTotal.Equal(dec("160")) {
		t.Fatalf("unexpected cart %+v", quote.Cart)
	}
	if !quote.Totals.Subtotal.Equal(dec("160")) {
		t.Fatalf("subtotal = %s", quote.Totals.Subtotal)
	}
}

func TestPriceCartNoAuth(t *testing.T) {
	svc := newService(&stubVendorStore{}, &stubCatalog{}, &stubOrders{})

	_, err := svc.PriceCart(context.Background(), "", cartRequest())
	if got := appStatus(t, err); got != 401 {
		t.Fatalf("status = %d, want 401", got)
	}
}

func TestPriceCartDisabledVendor(t *testing.T) {
	disabled := enabledVendor()
	disabled.PortalEnabled = false
	svc := newService(&stubVendorStore{vendor: disabled}, &stubCatalog{}, &stubOrders{})

	_, err := svc.PriceCart(context.Background(), bearer(`{"sub":"vendor-1"}`), cartRequest())
	if got := appStatus(t, err); got != 401 {
		t.Fatalf("status = %d, want 401", got)
	}
}

func TestPriceCartVendorIDMismatch(t *testing.T) {
	// The email matches a different vendor than the explicitly requested id.
	store := &stubVendorStore{vendor: &vendor.Vendor{ID: "vendor-2", PortalEnabled: true}}
	svc := newService(store, &stubCatalog{}, &stubOrders{})

	req := cartRequest()
	req.VendorID = "vendor-1"
	req.VendorEmail = "other@example.com"

	_, err := svc.PriceCart(context.Background(), "", req)
	if got := appStatus(t, err); got != 403 {
		t.Fatalf("status = %d, want 403", got)
	}
}

func TestPriceCartEmptyItems(t *testing.T) {
	svc := newService(&stubVendorStore{vendor: enabledVendor()}, &stubCatalog{}, &stubOrders{})

	_, err := svc.PriceCart(context.Background(), bearer(`{"sub":"vendor-1"}`), wholesale.Request{})
	if got := appStatus(t, err); got != 400 {
		t.Fatalf("status = %d, want 400", got)
	}
}

func TestPriceCartUnknownProduct(t *testing.T) {
	svc := newService(
		&stubVendorStore{vendor: enabledVendor()},
		&stubCatalog{products: nil},
		&stubOrders{},
	)

	_, err := svc.PriceCart(context.Background(), bearer(`{"sub":"vendor-1"}`), cartRequest())
	if got := appStatus(t, err); got != 404 {
		t.Fatalf("status = %d, want 404", got)
	}
}

func TestPriceCartStoreFailure(t *testing.T) {
	svc := newService(&stubVendorStore{err: errors.New("timeout")}, &stubCatalog{}, &stubOrders{})

	_, err := svc.PriceCart(context.Background(), bearer(`{"sub":"vendor-1"}`), cartRequest())
	if got := appStatus(t, err); got != 500 {
		t.Fatalf("status = %d, want 500 for store failure", got)
	}
}

func TestPlaceOrderReturnsQuoteAndOrder(t *testing.T) {
	orders := &stubOrders{}
	svc := newService(
		&stubVendorStore{vendor: enabledVendor()},
		&stubCatalog{products: []catalog.ProductPricing{standardProduct()}},
		orders,
	)

	req := cartRequest()
	req.Shipping = floatPtr(12.5)
	req.TaxRate = floatPtr(0.08)

	result, err := svc.PlaceOrder(context.Background(), bearer(`{"sub":"vendor-1"}`), req)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if result.Order.OrderNumber != "FAS-123456" {
		t.Fatalf("order number = %q", result.Order.OrderNumber)
	}
	if !result.Order.TotalAmount.Equal(dec("185.30")) {
		t.Fatalf("total = %s, want 185.30", result.Order.TotalAmount)
	}
	if len(orders.placed) != 1 {
		t.Fatalf("placed %d orders", len(orders.placed))
	}
}

func TestPlaceOrderFailurePreservesStatus(t *testing.T) {
	svc := newService(
		&stubVendorStore{vendor: enabledVendor()},
		&stubCatalog{products: []catalog.ProductPricing{standardProduct()}},
		&stubOrders{placeErr: errors.New("insert failed")},
	)

	_, err := svc.PlaceOrder(context.Background(), bearer(`{"sub":"vendor-1"}`), cartRequest())
	if got := appStatus(t, err); got != 500 {
		t.Fatalf("status = %d, want 500", got)
	}
}

func TestListProductsPricedForTier(t *testing.T) {
	v := enabledVendor()
	v.PricingTier = "platinum"
	svc := newService(
		&stubVendorStore{vendor: v},
		&stubCatalog{products: []catalog.ProductPricing{standardProduct()}},
		&stubOrders{},
	)

	page, err := svc.ListProducts(context.Background(), bearer(`{"sub":"vendor-1"}`), url.Values{})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d", len(page.Items))
	}
	// Platinum default discount off the 100 base price.
	if !page.Items[0].UnitPrice.Equal(dec("60")) {
		t.Fatalf("unit price = %s, want 60", page.Items[0].UnitPrice)
	}
	if page.Items[0].EffectiveTier != pricing.TierPlatinum {
		t.Fatalf("tier = %s", page.Items[0].EffectiveTier)
	}
}

func TestListProductsRequiresAuth(t *testing.T) {
	svc := newService(&stubVendorStore{}, &stubCatalog{}, &stubOrders{})
	_, err := svc.ListProducts(context.Background(), "", url.Values{})
	if got := appStatus(t, err); got != 401 {
		t.Fatalf("status = %d, want 401", got)
	}
}

func TestOrderHistory(t *testing.T) {
	orders := &stubOrders{history: []order.Order{
		{OrderNumber: "FAS-000001", VendorID: "vendor-1", Total: dec("50")},
		{OrderNumber: "FAS-000002", VendorID: "vendor-1", Total: dec("75")},
	}}
	svc := newService(&stubVendorStore{vendor: enabledVendor()}, &stubCatalog{}, orders)

	page, err := svc.OrderHistory(context.Background(), bearer(`{"sub":"vendor-1"}`), 1, 20)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(page.Orders) != 2 || page.Pagination.TotalItems != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Orders[0].OrderNumber != "FAS-000001" {
		t.Fatalf("first order %q", page.Orders[0].OrderNumber)
	}
}
