package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle values. Payment success is an upstream precondition, so
// orders are born paid; workflow transitions past "requested" happen elsewhere.
const (
	TypeWholesale     = "wholesale"
	StatusPaid        = "paid"
	WorkflowRequested = "requested"
)

// Line is a priced cart line snapshot embedded in the order document. Each
// line gets a fresh unique key at placement time.
type Line struct {
	Key       string          `json:"key"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Order is a persisted wholesale order with its money snapshot and
// denormalized vendor identity.
type Order struct {
	ID             uuid.UUID
	OrderNumber    string
	Type           string
	Status         string
	WorkflowStatus string
	VendorID       string
	VendorName     string
	VendorEmail    string
	Lines          []Line
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Shipping       decimal.Decimal
	Total          decimal.Decimal
	CreatedAt      time.Time
}
