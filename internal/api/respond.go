package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/foodworks/foodies-api/internal/domain/menu"
	"github.com/foodworks/foodies-api/internal/domain/order"
	"github.com/foodworks/foodies-api/internal/domain/pricing"
)

// writeJSON encodes the response body with jx and writes it with the given
// status code. Monetary values are always emitted as 2-decimal strings, never
// floats, so clients receive exactly what the engine computed.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Debug("Write response", zap.Error(err))
	}
}

// writeError writes the standard error envelope {"code":..,"message":..}.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.StrEscape(msg)
		e.ObjEnd()
	})
}

func encodeMoney(e *jx.Encoder, d decimal.Decimal) {
	e.Str(d.StringFixed(2))
}

func (h *Handler) encodeMenuItem(e *jx.Encoder, item menu.Item) {
	base := h.imageBaseURL
	e.ObjStart()
	e.FieldStart("id")
	e.Str(item.ID)
	e.FieldStart("name")
	e.StrEscape(item.Name)
	e.FieldStart("price")
	encodeMoney(e, item.Price)
	e.FieldStart("category")
	e.StrEscape(item.Category)
	e.FieldStart("veg")
	e.Bool(item.Veg)
	e.FieldStart("image")
	e.ObjStart()
	e.FieldStart("thumbnail")
	e.Str(base + item.Image.Thumbnail)
	e.FieldStart("mobile")
	e.Str(base + item.Image.Mobile)
	e.FieldStart("tablet")
	e.Str(base + item.Image.Tablet)
	e.FieldStart("desktop")
	e.Str(base + item.Image.Desktop)
	e.ObjEnd()
	e.ObjEnd()
}

func encodeLine(e *jx.Encoder, l order.Line) {
	e.ObjStart()
	e.FieldStart("itemId")
	e.Str(l.ItemID)
	e.FieldStart("name")
	e.StrEscape(l.Name)
	e.FieldStart("unitPrice")
	encodeMoney(e, l.UnitPrice)
	e.FieldStart("quantity")
	e.Int(l.Quantity)
	e.FieldStart("lineTotal")
	encodeMoney(e, pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}.Total())
	e.ObjEnd()
}

func encodeCart(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("lines")
	e.ArrStart()
	for _, l := range o.Lines {
		encodeLine(e, l)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeQuote(e *jx.Encoder, q *order.Quote) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(q.Order.ID)
	e.FieldStart("status")
	e.Str(string(q.Order.Status))
	if q.Order.Status == order.StatusPlaced {
		e.FieldStart("customer")
		e.ObjStart()
		e.FieldStart("name")
		e.StrEscape(q.Order.CustomerName)
		e.FieldStart("phone")
		e.StrEscape(q.Order.CustomerPhone)
		e.ObjEnd()
	}
	e.FieldStart("lines")
	e.ArrStart()
	for _, l := range q.Order.Lines {
		encodeLine(e, l)
	}
	e.ArrEnd()
	e.FieldStart("subtotal")
	encodeMoney(e, q.Subtotal)
	e.FieldStart("adjustments")
	e.ArrStart()
	for _, adj := range q.Adjustments {
		e.ObjStart()
		e.FieldStart("label")
		e.StrEscape(adj.Label)
		e.FieldStart("amount")
		encodeMoney(e, adj.Amount)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("total")
	encodeMoney(e, q.Total)
	e.ObjEnd()
}
