package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/foodworks/foodies-api/internal/domain/menu"
)

// listMenu returns the catalog, optionally filtered by category and
// vegetarian preference, alongside the distinct category list so clients can
// render filter controls.
func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := menu.Filter{
		Category:   q.Get("category"),
		VegOnly:    q.Get("veg") == "1",
		NonVegOnly: q.Get("nonveg") == "1",
	}

	items, err := h.menu.List(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, errors.Wrap(err, "list menu"))
		return
	}

	categories, err := h.menu.Categories(r.Context())
	if err != nil {
		h.serverError(w, r, errors.Wrap(err, "list categories"))
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		e.ArrStart()
		for _, item := range items {
			h.encodeMenuItem(e, item)
		}
		e.ArrEnd()
		e.FieldStart("categories")
		e.ArrStart()
		for _, c := range categories {
			e.StrEscape(c)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// getMenuItem returns a single menu item by ID.
func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")

	item, err := h.menu.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "menu item not found")
			return
		}
		h.serverError(w, r, errors.Wrapf(err, "get menu item %s", id))
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		h.encodeMenuItem(e, *item)
	})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Internal error", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal error")
}
