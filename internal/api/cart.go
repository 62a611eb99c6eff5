package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/foodworks/foodies-api/internal/domain/order"
)

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"omitempty,min=5,max=15"`
}

// createCart starts a new empty cart and returns it.
func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.CreateCart(r.Context())
	if err != nil {
		h.serverError(w, r, errors.Wrap(err, "create cart"))
		return
	}

	writeJSON(w, r, http.StatusCreated, func(e *jx.Encoder) {
		encodeCart(e, o)
	})
}

// addItem puts a menu item into the cart, merging with an existing line.
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.AddItem(r.Context(), orderID, req.ItemID, req.Quantity)
	if err != nil {
		h.cartError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodeCart(e, o)
	})
}

// updateItem changes a line's quantity; zero removes the line.
func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	itemID := chi.URLParam(r, "itemID")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.UpdateQuantity(r.Context(), orderID, itemID, req.Quantity)
	if err != nil {
		h.cartError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodeCart(e, o)
	})
}

// getQuote prices the cart and returns lines, adjustments, and total.
func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	q, err := h.orders.Quote(r.Context(), orderID)
	if err != nil {
		h.cartError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodeQuote(e, q)
	})
}

// checkout captures the customer and freezes the cart's pricing.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "name is required; phone must be 5-15 characters")
		return
	}

	q, err := h.orders.Checkout(r.Context(), orderID, req.Name, req.Phone)
	if err != nil {
		h.cartError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodeQuote(e, q)
	})
}

// getReceipt returns the frozen pricing of a placed order.
func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	q, err := h.orders.Receipt(r.Context(), orderID)
	if err != nil {
		h.cartError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodeQuote(e, q)
	})
}

// cartError maps order service errors to HTTP responses.
func (h *Handler) cartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, r, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, order.ErrNotOpen):
		writeError(w, r, http.StatusConflict, "order is no longer open")
	case errors.Is(err, order.ErrNotPlaced):
		writeError(w, r, http.StatusConflict, "order has not been placed")
	default:
		var iqErr *order.InvalidQuantityError
		if errors.As(err, &iqErr) {
			writeError(w, r, http.StatusUnprocessableEntity, iqErr.Error())
			return
		}
		var nfErr *order.ItemNotFoundError
		if errors.As(err, &nfErr) {
			writeError(w, r, http.StatusUnprocessableEntity, nfErr.Error())
			return
		}
		h.serverError(w, r, err)
	}
}
