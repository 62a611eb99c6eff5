// Package api exposes the storefront over HTTP: menu browsing, cart editing,
// checkout, and receipts. Rendering is not its business; receipts are plain
// data for whatever consumes them.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foodworks/foodies-api/internal/domain/menu"
	"github.com/foodworks/foodies-api/internal/domain/order"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// ImageBaseURL is prepended to relative image paths in menu responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler serves the storefront API, delegating business logic to the
// injected menu repository and order service.
type Handler struct {
	menu         menu.Repository
	orders       *order.Service
	validate     *validator.Validate
	imageBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(cfg HandlerConfig, m menu.Repository, orders *order.Service) *Handler {
	return &Handler{
		menu:         m,
		orders:       orders,
		validate:     validator.New(),
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes returns the chi router for all /api endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/menu", h.listMenu)
	r.Get("/menu/{itemID}", h.getMenuItem)

	r.Post("/carts", h.createCart)
	r.Get("/carts/{orderID}", h.getQuote)
	r.Post("/carts/{orderID}/items", h.addItem)
	r.Put("/carts/{orderID}/items/{itemID}", h.updateItem)
	r.Post("/carts/{orderID}/checkout", h.checkout)

	r.Get("/orders/{orderID}/receipt", h.getReceipt)

	return r
}
