//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCheckout_Flow(t *testing.T) {
	cartID := createCart(t)
	addItem(t, cartID, "M2", 2)

	resp := doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", checkoutRequest{Name: "Asha", Phone: "9876543210"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	order := decodeJSON[cartResponse](t, resp)
	if order.Status != "placed" {
		t.Errorf("status: got %q, want placed", order.Status)
	}
	// 2x320.00 = 640.00; over the 500 threshold (-64.00) plus 5% GST (+32.00).
	if order.Subtotal != "640.00" {
		t.Errorf("subtotal: got %q, want %q", order.Subtotal, "640.00")
	}
	if order.Total != "608.00" {
		t.Errorf("total: got %q, want %q", order.Total, "608.00")
	}
	if order.Customer == nil || order.Customer.Name != "Asha" {
		t.Errorf("customer: got %+v, want name Asha", order.Customer)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	cartID := createCart(t)

	resp := doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", checkoutRequest{Name: "Asha"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckout_MissingName(t *testing.T) {
	cartID := createCart(t)
	addItem(t, cartID, "D2", 1)

	resp := doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", checkoutRequest{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckout_Twice(t *testing.T) {
	cartID := createCart(t)
	addItem(t, cartID, "X1", 1)

	resp := doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", checkoutRequest{Name: "Asha"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first checkout: expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", checkoutRequest{Name: "Asha"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second checkout: expected 409, got %d", resp.StatusCode)
	}
}

func TestCheckout_EditAfterCheckoutRejected(t *testing.T) {
	cartID := createCart(t)
	addItem(t, cartID, "M3", 1)

	resp := doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", checkoutRequest{Name: "Asha"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout: expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/items", addItemRequest{ItemID: "D1", Quantity: 1})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("add after checkout: expected 409, got %d", resp.StatusCode)
	}
}

func TestReceipt(t *testing.T) {
	cartID := createCart(t)
	addItem(t, cartID, "D1", 2)

	resp := doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", checkoutRequest{Name: "Ravi"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout: expected 200, got %d", resp.StatusCode)
	}

	resp = doGet(t, "/api/orders/"+cartID+"/receipt")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("receipt: expected 200, got %d", resp.StatusCode)
	}

	receipt := decodeJSON[cartResponse](t, resp)
	if receipt.Status != "placed" {
		t.Errorf("status: got %q, want placed", receipt.Status)
	}
	if receipt.Subtotal != "80.00" {
		t.Errorf("subtotal: got %q, want %q", receipt.Subtotal, "80.00")
	}
	if receipt.Total != "84.00" {
		t.Errorf("total: got %q, want %q", receipt.Total, "84.00")
	}
}

func TestReceipt_NotPlaced(t *testing.T) {
	cartID := createCart(t)
	addItem(t, cartID, "D1", 1)

	resp := doGet(t, "/api/orders/"+cartID+"/receipt")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
