package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/foodworks/foodies-api/internal/domain/menu"
)

const (
	listMenuItemsSQL = `SELECT id, name, price, category, veg, image_thumbnail, image_mobile, image_tablet, image_desktop
		FROM menu_items
		WHERE ($1 = '' OR category = $1)
		  AND (NOT $2 OR veg = TRUE)
		  AND (NOT $3 OR veg = FALSE)
		ORDER BY category, name`

	getMenuItemByIDSQL = `SELECT id, name, price, category, veg, image_thumbnail, image_mobile, image_tablet, image_desktop
		FROM menu_items WHERE id = $1`

	listCategoriesSQL = `SELECT DISTINCT category FROM menu_items ORDER BY category`
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// List returns menu items matching the filter, ordered by category then name.
func (r *MenuRepository) List(ctx context.Context, f menu.Filter) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, listMenuItemsSQL, f.Category, f.VegOnly, f.NonVegOnly)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByID returns a single menu item by its identifier.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*menu.Item, error) {
	rows, err := r.pool.Query(ctx, getMenuItemByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	return &item, nil
}

// Categories returns the distinct menu categories in alphabetical order.
func (r *MenuRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var c string
		err := row.Scan(&c)
		return c, err
	})
}

func scanMenuItem(row pgx.CollectableRow) (menu.Item, error) {
	var (
		item  menu.Item
		price decimal.Decimal
	)
	err := row.Scan(
		&item.ID, &item.Name, &price, &item.Category, &item.Veg,
		&item.Image.Thumbnail, &item.Image.Mobile, &item.Image.Tablet, &item.Image.Desktop,
	)
	item.Price = price
	return item, err
}
