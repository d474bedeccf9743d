package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNumberTaken reports a unique-constraint conflict on the order number.
// Callers regenerate the number and retry the insert.
var ErrNumberTaken = errors.New("order number already taken")

const insertOrderSQL = `
INSERT INTO orders (id, order_number, order_type, status, workflow_status,
                    vendor_id, vendor_name, vendor_email, lines,
                    subtotal, tax, shipping, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING created_at`

// Order numbers must be unique across orders and invoices, so the collision
// check consults both tables.
const countNumberSQL = `
SELECT (SELECT count(*) FROM orders WHERE order_number = $1)
     + (SELECT count(*) FROM invoices WHERE invoice_number = $1)`

const listByVendorSQL = `
SELECT id, order_number, order_type, status, workflow_status,
       vendor_id, vendor_name, coalesce(vendor_email, ''), lines,
       subtotal, tax, shipping, total, created_at
FROM orders
WHERE vendor_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

const countByVendorSQL = `SELECT count(*) FROM orders WHERE vendor_id = $1`

// Repository persists orders in PostgreSQL.
type Repository struct {
	Pool *pgxpool.Pool
}

// Insert writes a new order document. A duplicate order number surfaces as
// ErrNumberTaken.
func (r *Repository) Insert(ctx context.Context, o *Order) error {
	if r == nil || r.Pool == nil {
		return errors.New("order repository not configured")
	}
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshal order lines: %w", err)
	}
	err = r.Pool.QueryRow(ctx, insertOrderSQL,
		o.ID, o.OrderNumber, o.Type, o.Status, o.WorkflowStatus,
		o.VendorID, o.VendorName, o.VendorEmail, linesJSON,
		o.Subtotal, o.Tax, o.Shipping, o.Total,
	).Scan(&o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order number %s: %w", o.OrderNumber, ErrNumberTaken)
		}
		return fmt.Errorf("insert order %s: %w", o.OrderNumber, err)
	}
	return nil
}

// CountNumber reports how many orders and invoices already carry the number.
func (r *Repository) CountNumber(ctx context.Context, number string) (int64, error) {
	if r == nil || r.Pool == nil {
		return 0, errors.New("order repository not configured")
	}
	var count int64
	if err := r.Pool.QueryRow(ctx, countNumberSQL, number).Scan(&count); err != nil {
		return 0, fmt.Errorf("count order number: %w", err)
	}
	return count, nil
}

// ListByVendor returns a page of the vendor's orders, newest first, with the
// total order count.
func (r *Repository) ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]Order, int64, error) {
	if r == nil || r.Pool == nil {
		return nil, 0, errors.New("order repository not configured")
	}
	var total int64
	if err := r.Pool.QueryRow(ctx, countByVendorSQL, vendorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	rows, err := r.Pool.Query(ctx, listByVendorSQL, vendorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		var o Order
		var linesJSON []byte
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.Type, &o.Status, &o.WorkflowStatus,
			&o.VendorID, &o.VendorName, &o.VendorEmail, &linesJSON,
			&o.Subtotal, &o.Tax, &o.Shipping, &o.Total, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if len(linesJSON) > 0 {
			if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
				o.Lines = nil
			}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
