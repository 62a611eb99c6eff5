package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Item represents a dish available for ordering.
type Item struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
	Veg      bool
	Image    Image
}

// Image holds responsive image URLs for a menu item.
type Image struct {
	Thumbnail string
	Mobile    string
	Tablet    string
	Desktop   string
}

// Filter narrows a menu listing. Zero value means no filtering.
type Filter struct {
	Category   string
	VegOnly    bool
	NonVegOnly bool
}

// Repository defines read operations for the menu catalog.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Categories(ctx context.Context) ([]string, error)
}
