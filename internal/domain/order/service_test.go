package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodworks/foodies-api/internal/domain/menu"
	"github.com/foodworks/foodies-api/internal/domain/pricing"
)

// --- Mock implementations ---

type mockMenuRepo struct {
	byID map[string]*menu.Item
}

func (m *mockMenuRepo) List(_ context.Context, _ menu.Filter) ([]menu.Item, error) {
	return nil, nil
}

func (m *mockMenuRepo) GetByID(_ context.Context, id string) (*menu.Item, error) {
	item, ok := m.byID[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	return item, nil
}

func (m *mockMenuRepo) Categories(_ context.Context) ([]string, error) {
	return nil, nil
}

type mockOrderRepo struct {
	byID map[string]*Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{byID: make(map[string]*Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	cp := *o
	m.byID[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) Get(_ context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	cp.Lines = append([]Line(nil), o.Lines...)
	return &cp, nil
}

func (m *mockOrderRepo) Update(_ context.Context, o *Order) error {
	if _, ok := m.byID[o.ID]; !ok {
		return ErrNotFound
	}
	cp := *o
	cp.Lines = append([]Line(nil), o.Lines...)
	m.byID[o.ID] = &cp
	return nil
}

// --- Helpers ---

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newMenuRepo(items ...menu.Item) *mockMenuRepo {
	byID := make(map[string]*menu.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return &mockMenuRepo{byID: byID}
}

func testRules(t *testing.T) pricing.RuleSet {
	t.Helper()
	rs, err := pricing.NewRuleSet([]pricing.RuleConfig{
		{Kind: "threshold_discount", Label: "10% OFF on 500+", Threshold: "500", Percent: "0.10"},
		{Kind: "buy_x_get_y", Label: "Buy 2 Get 1 Free (Fries)", ItemID: "S1", X: 2, Y: 1},
		{Kind: "tax", Label: "GST @ 5%", Rate: "0.05"},
	})
	require.NoError(t, err)
	return rs
}

func newTestService(t *testing.T, items ...menu.Item) (*Service, *mockOrderRepo) {
	t.Helper()
	orders := newMockOrderRepo()
	svc := NewService(newMenuRepo(items...), orders, testRules(t))
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, orders
}

var (
	thali = menu.Item{ID: "M1", Name: "Paneer Thali", Price: decimal.RequireFromString("350.00"), Category: "Mains", Veg: true}
	fries = menu.Item{ID: "S1", Name: "Masala Fries", Price: decimal.RequireFromString("50.00"), Category: "Sides", Veg: true}
)

// --- Tests ---

func TestCreateCart(t *testing.T) {
	svc, orders := newTestService(t)

	o, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusOpen, o.Status)
	assert.Empty(t, o.Lines)
	assert.Contains(t, orders.byID, o.ID)
}

func TestAddItem(t *testing.T) {
	svc, _ := newTestService(t, thali, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	o, err := svc.AddItem(context.Background(), cart.ID, "M1", 2)
	require.NoError(t, err)

	require.Len(t, o.Lines, 1)
	assert.Equal(t, "M1", o.Lines[0].ItemID)
	assert.Equal(t, "Paneer Thali", o.Lines[0].Name)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.True(t, d("350.00").Equal(o.Lines[0].UnitPrice))
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	svc, _ := newTestService(t, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 2)
	require.NoError(t, err)
	o, err := svc.AddItem(context.Background(), cart.ID, "S1", 3)
	require.NoError(t, err)

	require.Len(t, o.Lines, 1)
	assert.Equal(t, 5, o.Lines[0].Quantity)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	svc, _ := newTestService(t, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 0)

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "S1", iqErr.ItemID)
}

func TestAddItem_UnknownItem(t *testing.T) {
	svc, _ := newTestService(t)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), cart.ID, "missing", 1)

	var nfErr *ItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.ItemID)
}

func TestAddItem_UnknownOrder(t *testing.T) {
	svc, _ := newTestService(t, fries)

	_, err := svc.AddItem(context.Background(), "nope", "S1", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newTestService(t, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 2)
	require.NoError(t, err)

	o, err := svc.UpdateQuantity(context.Background(), cart.ID, "S1", 6)
	require.NoError(t, err)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 6, o.Lines[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	svc, _ := newTestService(t, thali, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "M1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 2)
	require.NoError(t, err)

	o, err := svc.UpdateQuantity(context.Background(), cart.ID, "M1", 0)
	require.NoError(t, err)

	require.Len(t, o.Lines, 1)
	assert.Equal(t, "S1", o.Lines[0].ItemID)
}

func TestUpdateQuantity_LineNotInCart(t *testing.T) {
	svc, _ := newTestService(t, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(context.Background(), cart.ID, "S1", 2)

	var nfErr *ItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestQuote(t *testing.T) {
	svc, _ := newTestService(t, thali, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "M1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 3)
	require.NoError(t, err)

	q, err := svc.Quote(context.Background(), cart.ID)
	require.NoError(t, err)

	// Subtotal 500.00: threshold discount -50.00, one free fries -50.00,
	// 5% GST on the original subtotal +25.00.
	assert.True(t, d("500.00").Equal(q.Subtotal))
	require.Len(t, q.Adjustments, 3)
	assert.True(t, d("-50.00").Equal(q.Adjustments[0].Amount))
	assert.True(t, d("-50.00").Equal(q.Adjustments[1].Amount))
	assert.True(t, d("25.00").Equal(q.Adjustments[2].Amount))
	assert.True(t, d("425.00").Equal(q.Total))
}

func TestQuote_EmptyCart(t *testing.T) {
	svc, _ := newTestService(t)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	q, err := svc.Quote(context.Background(), cart.ID)
	require.NoError(t, err)

	assert.True(t, q.Subtotal.IsZero())
	assert.True(t, q.Total.IsZero())
	for _, adj := range q.Adjustments {
		assert.True(t, adj.Amount.IsZero())
	}
}

func TestCheckout(t *testing.T) {
	svc, orders := newTestService(t, thali, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "M1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 3)
	require.NoError(t, err)

	q, err := svc.Checkout(context.Background(), cart.ID, "Asha", "9876543210")
	require.NoError(t, err)

	assert.True(t, d("425.00").Equal(q.Total))

	stored := orders.byID[cart.ID]
	assert.Equal(t, StatusPlaced, stored.Status)
	assert.Equal(t, "Asha", stored.CustomerName)
	assert.Equal(t, "9876543210", stored.CustomerPhone)
	assert.True(t, d("500.00").Equal(stored.Subtotal))
	assert.True(t, d("425.00").Equal(stored.Total))
	require.Len(t, stored.Adjustments, 3)
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _ := newTestService(t)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), cart.ID, "Asha", "9876543210")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_BlankNameDefaultsToGuest(t *testing.T) {
	svc, orders := newTestService(t, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 1)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), cart.ID, "  ", "")
	require.NoError(t, err)

	assert.Equal(t, "Guest", orders.byID[cart.ID].CustomerName)
}

func TestCheckout_AlreadyPlaced(t *testing.T) {
	svc, _ := newTestService(t, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 1)
	require.NoError(t, err)
	_, err = svc.Checkout(context.Background(), cart.ID, "Asha", "")
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), cart.ID, "Asha", "")
	require.ErrorIs(t, err, ErrNotOpen)
}

func TestReceipt(t *testing.T) {
	svc, _ := newTestService(t, thali, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "M1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 3)
	require.NoError(t, err)
	_, err = svc.Checkout(context.Background(), cart.ID, "Asha", "9876543210")
	require.NoError(t, err)

	q, err := svc.Receipt(context.Background(), cart.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusPlaced, q.Order.Status)
	assert.True(t, d("500.00").Equal(q.Subtotal))
	assert.True(t, d("425.00").Equal(q.Total))
	require.Len(t, q.Adjustments, 3)
}

func TestReceipt_NotPlaced(t *testing.T) {
	svc, _ := newTestService(t, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)

	_, err = svc.Receipt(context.Background(), cart.ID)
	require.ErrorIs(t, err, ErrNotPlaced)
}

func TestEditAfterCheckoutRejected(t *testing.T) {
	svc, _ := newTestService(t, fries)
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 1)
	require.NoError(t, err)
	_, err = svc.Checkout(context.Background(), cart.ID, "Asha", "")
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), cart.ID, "S1", 1)
	require.ErrorIs(t, err, ErrNotOpen)

	_, err = svc.UpdateQuantity(context.Background(), cart.ID, "S1", 2)
	require.ErrorIs(t, err, ErrNotOpen)
}
