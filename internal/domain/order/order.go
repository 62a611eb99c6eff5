package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/foodworks/foodies-api/internal/domain/pricing"
)

// Status tracks where an order is in its lifecycle.
type Status string

const (
	// StatusOpen marks a cart still being edited by the customer.
	StatusOpen Status = "open"
	// StatusPlaced marks a checked-out order with frozen pricing.
	StatusPlaced Status = "placed"
)

// Line is a single cart line: a menu item at the unit price it carried when
// it was added, and how many of it.
type Line struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Order is a customer cart, and after checkout the placed order. Pricing
// fields (Subtotal, Adjustments, Total) are only populated once the order is
// placed; open carts are priced on demand.
type Order struct {
	ID            string
	Status        Status
	CustomerName  string
	CustomerPhone string
	Lines         []Line
	Subtotal      decimal.Decimal
	Adjustments   []pricing.Adjustment
	Total         decimal.Decimal
	CreatedAt     time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
}
