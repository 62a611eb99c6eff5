package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodworks/foodies-api/internal/domain/menu"
	"github.com/foodworks/foodies-api/internal/domain/pricing"
)

// Sentinel errors for cart and checkout validation.
var (
	ErrNotFound  = errors.New("order not found")
	ErrEmptyCart = errors.New("cart is empty")
	ErrNotOpen   = errors.New("order is no longer open")
	ErrNotPlaced = errors.New("order has not been placed")
)

// ItemNotFoundError indicates a requested menu item does not exist, either in
// the catalog or in the cart being edited.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found", e.ItemID)
}

// InvalidQuantityError indicates a non-positive quantity was supplied where a
// positive one is required.
type InvalidQuantityError struct {
	ItemID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %s", e.ItemID)
}

// Quote is a fully priced view of an order: its lines, the quantized
// subtotal, every rule's labeled adjustment in configured order, and the
// grand total. Rendering and receipt generation consume it verbatim.
type Quote struct {
	Order       *Order
	Subtotal    decimal.Decimal
	Adjustments []pricing.Adjustment
	Total       decimal.Decimal
}

// Service encapsulates cart editing, pricing, and checkout business logic.
type Service struct {
	menu   menu.Repository
	orders Repository
	rules  pricing.RuleSet
	now    func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
// The rule set is built once at startup and shared by every evaluation.
func NewService(m menu.Repository, orders Repository, rules pricing.RuleSet) *Service {
	return &Service{
		menu:   m,
		orders: orders,
		rules:  rules,
		now:    time.Now,
	}
}

// CreateCart starts a new empty cart.
func (s *Service) CreateCart(ctx context.Context) (*Order, error) {
	o := &Order{
		ID:        uuid.New().String(),
		Status:    StatusOpen,
		CreatedAt: s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// AddItem puts qty units of a menu item into an open cart. Adding an item
// already in the cart increments the existing line instead of creating a
// duplicate.
func (s *Service) AddItem(ctx context.Context, orderID, itemID string, qty int) (*Order, error) {
	if qty <= 0 {
		return nil, &InvalidQuantityError{ItemID: itemID}
	}

	o, err := s.openOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	item, err := s.menu.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			return nil, &ItemNotFoundError{ItemID: itemID}
		}
		return nil, errors.Wrapf(err, "get menu item %s", itemID)
	}

	merged := false
	for i := range o.Lines {
		if o.Lines[i].ItemID == itemID {
			o.Lines[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		o.Lines = append(o.Lines, Line{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  qty,
		})
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the line entirely.
func (s *Service) UpdateQuantity(ctx context.Context, orderID, itemID string, qty int) (*Order, error) {
	o, err := s.openOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range o.Lines {
		if o.Lines[i].ItemID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &ItemNotFoundError{ItemID: itemID}
	}

	if qty <= 0 {
		o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
	} else {
		o.Lines[idx].Quantity = qty
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// Quote prices an open cart with the configured rule set. Nothing is
// persisted: open carts are always priced fresh so menu edits and rule
// changes take effect until checkout freezes the numbers.
func (s *Service) Quote(ctx context.Context, orderID string) (*Quote, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusPlaced {
		return s.placedQuote(o), nil
	}
	return s.price(o), nil
}

// Checkout captures the customer, prices the cart one final time, and marks
// the order placed with its pricing frozen.
func (s *Service) Checkout(ctx context.Context, orderID, name, phone string) (*Quote, error) {
	o, err := s.openOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(o.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}

	q := s.price(o)
	o.CustomerName = name
	o.CustomerPhone = strings.TrimSpace(phone)
	o.Status = StatusPlaced
	o.Subtotal = q.Subtotal
	o.Adjustments = q.Adjustments
	o.Total = q.Total

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return q, nil
}

// Receipt returns the frozen pricing of a placed order.
func (s *Service) Receipt(ctx context.Context, orderID string) (*Quote, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPlaced {
		return nil, ErrNotPlaced
	}
	return s.placedQuote(o), nil
}

func (s *Service) openOrder(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusOpen {
		return nil, ErrNotOpen
	}
	return o, nil
}

// price evaluates the rule set against the order's current lines.
func (s *Service) price(o *Order) *Quote {
	view := pricing.Order{Lines: make([]pricing.Line, len(o.Lines))}
	for i, l := range o.Lines {
		view.Lines[i] = pricing.Line{
			ItemID:    l.ItemID,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}

	adjustments, total := s.rules.Evaluate(view)
	return &Quote{
		Order:       o,
		Subtotal:    view.Subtotal(),
		Adjustments: adjustments,
		Total:       total,
	}
}

// placedQuote rebuilds a Quote from the pricing stored at checkout.
func (s *Service) placedQuote(o *Order) *Quote {
	return &Quote{
		Order:       o,
		Subtotal:    o.Subtotal,
		Adjustments: o.Adjustments,
		Total:       o.Total,
	}
}
