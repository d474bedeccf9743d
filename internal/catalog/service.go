package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fas-supply/backend-wholesale/internal/common"
)

const productColumns = `id, name, coalesce(sku, ''), coalesce(category, ''),
       base_price, wholesale_standard, wholesale_preferred, wholesale_platinum,
       custom_tier_prices, wholesale_available, active, in_stock`

const batchPricingSQL = `
SELECT ` + productColumns + `
FROM products
WHERE id = ANY($1) AND wholesale_available AND active`

const listWholesaleSQL = `
SELECT ` + productColumns + `
FROM products
WHERE wholesale_available AND active
  AND ($1 = '' OR category = $1)
ORDER BY name
LIMIT $2 OFFSET $3`

const countWholesaleSQL = `
SELECT count(*)
FROM products
WHERE wholesale_available AND active
  AND ($1 = '' OR category = $1)`

// Service provides read access to the wholesale slice of the product catalog.
// Results are never cached across requests so every call reflects the catalog
// at call time.
type Service struct {
	pool         *pgxpool.Pool
	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Pool         *pgxpool.Pool
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// ListParams captures filters for the wholesale product listing.
type ListParams struct {
	Category string
	Page     int
	Limit    int
}

// ListResult contains list data and pagination metadata.
type ListResult struct {
	Items []ProductPricing
	Total int64
	Page  int
	Limit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Pool == nil {
		return nil, errors.New("catalog: pool is required")
	}
	defaultPage := cfg.DefaultPage
	if defaultPage < 1 {
		defaultPage = 1
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		pool:         cfg.Pool,
		defaultPage:  defaultPage,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Page:  s.defaultPage,
		Limit: s.defaultLimit,
	}
	params.Category = strings.TrimSpace(values.Get("category"))

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page := common.AtoiDefault(v, 0)
		if page < 1 {
			return params, common.ValidationError("page must be a positive integer", nil)
		}
		params.Page = page
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		limit := common.AtoiDefault(v, 0)
		if limit < 1 {
			return params, common.ValidationError("limit must be a positive integer", nil)
		}
		params.Limit = limit
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	return params, nil
}

// GetWholesalePricing batch-fetches pricing snapshots for the given product
// ids, restricted to wholesale-available, active products. Unknown ids are
// simply absent from the result; callers decide whether that is an error.
func (s *Service) GetWholesalePricing(ctx context.Context, ids []string) ([]ProductPricing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, batchPricingSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("batch fetch products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListWholesale returns a page of the wholesale catalog for the listing endpoint.
func (s *Service) ListWholesale(ctx context.Context, params ListParams) (ListResult, error) {
	page := params.Page
	if page < 1 {
		page = s.defaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = s.defaultLimit
	}
	var total int64
	if err := s.pool.QueryRow(ctx, countWholesaleSQL, params.Category).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count products: %w", err)
	}
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	rows, err := s.pool.Query(ctx, listWholesaleSQL, params.Category, limit, offset)
	if err != nil {
		return ListResult{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	items, err := scanProducts(rows)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func scanProducts(rows pgx.Rows) ([]ProductPricing, error) {
	var products []ProductPricing
	for rows.Next() {
		var p ProductPricing
		var customTiers []byte
		err := rows.Scan(
			&p.ID, &p.Name, &p.SKU, &p.Category,
			&p.BasePrice, &p.WholesaleStandard, &p.WholesalePreferred, &p.WholesalePlatinum,
			&customTiers, &p.WholesaleAvailable, &p.Active, &p.InStock,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if len(customTiers) > 0 {
			if err := json.Unmarshal(customTiers, &p.CustomTierPrices); err != nil {
				p.CustomTierPrices = nil
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
