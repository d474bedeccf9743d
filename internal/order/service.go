package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fas-supply/backend-wholesale/internal/obs"
	"github.com/fas-supply/backend-wholesale/internal/ordernum"
	"github.com/fas-supply/backend-wholesale/internal/pricing"
	"github.com/fas-supply/backend-wholesale/internal/vendor"
)

// Store persists and lists order documents.
type Store interface {
	Insert(ctx context.Context, o *Order) error
	ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]Order, int64, error)
}

// Ledger applies a placed order to the vendor's running aggregates. The
// increment must be a single atomic server-side operation.
type Ledger interface {
	ApplyOrder(ctx context.Context, vendorID string, total decimal.Decimal) error
}

// Service writes orders and keeps the vendor ledger current.
type Service struct {
	Store            Store
	Ledger           Ledger
	Numbers          ordernum.Generator
	InsertMaxRetries int
	Logger           zerolog.Logger
}

// Place creates the order document and then updates the vendor ledger. The
// two writes are sequential, not transactional: when the ledger update fails
// after a successful insert, the order exists without being reflected in the
// vendor aggregates and the failure is logged for reconciliation.
func (s *Service) Place(ctx context.Context, v *vendor.Vendor, items []pricing.PricedItem, totals pricing.Totals) (Order, error) {
	if v == nil {
		return Order{}, errors.New("vendor is required")
	}
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{
			Key:       uuid.NewString(),
			ProductID: item.ProductID,
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	ord := Order{
		Type:           TypeWholesale,
		Status:         StatusPaid,
		WorkflowStatus: WorkflowRequested,
		VendorID:       v.ID,
		VendorName:     v.CompanyName,
		VendorEmail:    v.BestEmail(),
		Lines:          lines,
		Subtotal:       totals.Subtotal,
		Tax:            totals.Tax,
		Shipping:       totals.Shipping,
		Total:          totals.Total,
	}

	retries := s.InsertMaxRetries
	if retries < 1 {
		retries = 1
	}
	var insertErr error
	for attempt := 0; attempt < retries; attempt++ {
		ord.ID = uuid.New()
		ord.OrderNumber = s.Numbers.Generate(ctx)
		insertErr = s.Store.Insert(ctx, &ord)
		if insertErr == nil {
			break
		}
		if !errors.Is(insertErr, ErrNumberTaken) {
			return Order{}, fmt.Errorf("insert order: %w", insertErr)
		}
		s.Logger.Warn().Str("order_number", ord.OrderNumber).Int("attempt", attempt+1).
			Msg("order number conflict, regenerating")
	}
	if insertErr != nil {
		return Order{}, fmt.Errorf("insert order: %w", insertErr)
	}

	if err := s.Ledger.ApplyOrder(ctx, v.ID, totals.Total); err != nil {
		if obs.LedgerUpdateFailures != nil {
			obs.LedgerUpdateFailures.Inc()
		}
		s.Logger.Error().Err(err).
			Str("order_id", ord.ID.String()).
			Str("order_number", ord.OrderNumber).
			Str("vendor_id", v.ID).
			Msg("vendor ledger update failed after order write, needs reconciliation")
		return ord, fmt.Errorf("update vendor ledger: %w", err)
	}
	return ord, nil
}

// History returns a page of the vendor's past orders.
func (s *Service) History(ctx context.Context, vendorID string, page, perPage int) ([]Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.Store.ListByVendor(ctx, vendorID, perPage, offset)
}
