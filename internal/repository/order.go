package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodworks/foodies-api/internal/domain/order"
	"github.com/foodworks/foodies-api/internal/domain/pricing"
)

const (
	createOrderSQL = `INSERT INTO orders (id, status, customer_name, customer_phone, lines, subtotal, adjustments, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getOrderSQL = `SELECT id, status, customer_name, customer_phone, lines, subtotal, adjustments, total, created_at
		FROM orders WHERE id = $1`

	updateOrderSQL = `UPDATE orders
		SET status = $2, customer_name = $3, customer_phone = $4, lines = $5, subtotal = $6, adjustments = $7, total = $8
		WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Cart
// lines and pricing adjustments are serialized to JSONB columns; monetary
// totals live in NUMERIC columns.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	linesJSON, adjJSON, err := marshalOrder(o)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, string(o.Status), o.CustomerName, o.CustomerPhone,
		linesJSON, o.Subtotal, adjJSON, o.Total, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// Get loads an order by ID. Returns order.ErrNotFound when no row matches.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// Update overwrites an order's mutable fields. Returns order.ErrNotFound
// when the order does not exist.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	linesJSON, adjJSON, err := marshalOrder(o)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.ID, string(o.Status), o.CustomerName, o.CustomerPhone,
		linesJSON, o.Subtotal, adjJSON, o.Total,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func marshalOrder(o *order.Order) (linesJSON, adjJSON []byte, err error) {
	lines := o.Lines
	if lines == nil {
		lines = []order.Line{}
	}
	linesJSON, err = json.Marshal(lines)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling order lines: %w", err)
	}

	adjustments := o.Adjustments
	if adjustments == nil {
		adjustments = []pricing.Adjustment{}
	}
	adjJSON, err = json.Marshal(adjustments)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling order adjustments: %w", err)
	}
	return linesJSON, adjJSON, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		status    string
		linesJSON []byte
		adjJSON   []byte
	)
	err := row.Scan(
		&o.ID, &status, &o.CustomerName, &o.CustomerPhone,
		&linesJSON, &o.Subtotal, &adjJSON, &o.Total, &o.CreatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}
	o.Status = order.Status(status)

	if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order lines: %w", err)
	}
	if err := json.Unmarshal(adjJSON, &o.Adjustments); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order adjustments: %w", err)
	}
	return o, nil
}
