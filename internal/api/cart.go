package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/nossoguia/guia-compras/internal/domain/cart"
	"github.com/nossoguia/guia-compras/internal/domain/pricing"
	"github.com/nossoguia/guia-compras/internal/session"
)

// errIndexOutOfRange marks a line index the cart does not have. It surfaces
// as a 404 before the controller's index contract can panic.
var errIndexOutOfRange = errors.New("item index out of range")

// cartView is a consistent snapshot of one session's cart, taken under the
// session lock so items, selections, and summary all describe the same state.
type cartView struct {
	ID          string
	Store       string
	Mode        cart.FulfillmentMode
	Payment     cart.PaymentMethod
	Items       []cart.Item
	Summary     cart.Summary
	CanCheckout bool
}

func snapshot(s *session.Session) cartView {
	var v cartView
	_ = s.Do(func(c *cart.Controller) error {
		v = cartView{
			ID:          s.ID,
			Store:       c.Store(),
			Mode:        c.Mode(),
			Payment:     c.Payment(),
			Items:       c.Items(),
			Summary:     c.Summary(),
			CanCheckout: c.CanCheckout(),
		}
		return nil
	})
	return v
}

func encodeCartView(e *jx.Encoder, v cartView) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(v.ID)
	e.FieldStart("store")
	e.Str(v.Store)
	e.FieldStart("mode")
	e.Str(string(v.Mode))
	e.FieldStart("payment")
	e.Str(string(v.Payment))
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range v.Items {
		e.ObjStart()
		e.FieldStart("label")
		e.Str(it.Label)
		e.FieldStart("weight")
		e.Str(string(it.Weight))
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("unit_price")
		e.Float64(it.UnitPrice(v.Mode).InexactFloat64())
		e.FieldStart("line_total")
		e.Float64(it.LineTotal(v.Mode).Round(2).InexactFloat64())
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("summary")
	e.ObjStart()
	e.FieldStart("subtotal")
	e.Float64(v.Summary.Subtotal.InexactFloat64())
	e.FieldStart("adjustment")
	e.Float64(v.Summary.Adjustment.InexactFloat64())
	e.FieldStart("total")
	e.Float64(v.Summary.Total.InexactFloat64())
	e.ObjEnd()
	e.FieldStart("can_checkout")
	e.Bool(v.CanCheckout)
	e.ObjEnd()
}

func (h *Handler) writeCart(w http.ResponseWriter, status int, s *session.Session) {
	v := snapshot(s)
	writeJSON(w, status, func(e *jx.Encoder) {
		encodeCartView(e, v)
	})
}

// session resolves the {id} path value, writing a 404 when the session does
// not exist or has been evicted.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := h.sessions.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	store := q.Get("store")
	weight := pricing.WeightClass(q.Get("weight"))

	s := h.sessions.Create()
	_ = s.Do(func(c *cart.Controller) error {
		c.InitFromRoute(store, weight)
		return nil
	})
	h.writeCart(w, http.StatusCreated, s)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeCart(w, http.StatusOK, s)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var weight string
	if err := decodeObj(r.Body, func(d *jx.Decoder, key string) error {
		if key != "weight" {
			return d.Skip()
		}
		var err error
		weight, err = d.Str()
		return err
	}); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if weight == "" {
		writeError(w, http.StatusUnprocessableEntity, "weight required")
		return
	}

	_ = s.Do(func(c *cart.Controller) error {
		c.AddItem(pricing.WeightClass(weight))
		return nil
	})
	h.writeCart(w, http.StatusOK, s)
}

// mutateLine runs op on the indexed line, bounds-checking under the session
// lock so the check and the mutation see the same cart.
func (h *Handler) mutateLine(w http.ResponseWriter, r *http.Request, op func(c *cart.Controller, index int)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusNotFound, "item index out of range")
		return
	}

	err = s.Do(func(c *cart.Controller) error {
		if index < 0 || index >= c.Len() {
			return errIndexOutOfRange
		}
		op(c, index)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "item index out of range")
		return
	}
	h.writeCart(w, http.StatusOK, s)
}

func (h *Handler) incrementItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, func(c *cart.Controller, index int) {
		c.Increment(index)
	})
}

func (h *Handler) decrementItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, func(c *cart.Controller, index int) {
		c.Decrement(index)
	})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, func(c *cart.Controller, index int) {
		c.Remove(index)
	})
}

func (h *Handler) setMode(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	raw, err := decodeStringField(r.Body, "mode")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	mode, err := cart.ParseMode(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown fulfillment mode")
		return
	}

	_ = s.Do(func(c *cart.Controller) error {
		c.SetMode(mode)
		return nil
	})
	h.writeCart(w, http.StatusOK, s)
}

func (h *Handler) setPayment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	raw, err := decodeStringField(r.Body, "payment")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	method, err := cart.ParsePayment(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown payment method")
		return
	}

	err = s.Do(func(c *cart.Controller) error {
		return c.SetPayment(method)
	})
	if errors.Is(err, cart.ErrEmptyCart) {
		writeError(w, http.StatusConflict, "payment method requires items in the cart")
		return
	}
	h.writeCart(w, http.StatusOK, s)
}

func (h *Handler) setStore(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	name, err := decodeStringField(r.Body, "store")
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "store required")
		return
	}

	_ = s.Do(func(c *cart.Controller) error {
		c.SetStore(name)
		return nil
	})
	h.writeCart(w, http.StatusOK, s)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var sub cart.Submission
	err := s.Do(func(c *cart.Controller) error {
		var err error
		sub, err = c.Checkout(r.Context())
		return err
	})
	if errors.Is(err, cart.ErrCheckoutNotReady) {
		writeError(w, http.StatusConflict, "store not selected or cart is empty")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("store")
		e.Str(sub.Store)
		e.FieldStart("mode")
		e.Str(string(sub.Mode))
		e.FieldStart("payment")
		e.Str(string(sub.Payment))
		e.FieldStart("total")
		e.Float64(sub.Total.InexactFloat64())
		e.FieldStart("items")
		e.ArrStart()
		for _, it := range sub.Items {
			e.ObjStart()
			e.FieldStart("label")
			e.Str(it.Label)
			e.FieldStart("weight")
			e.Str(string(it.Weight))
			e.FieldStart("quantity")
			e.Int(it.Quantity)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// decodeObj decodes a JSON object from the body, dispatching each key to f.
func decodeObj(body io.Reader, f func(d *jx.Decoder, key string) error) error {
	d := jx.Decode(body, 4096)
	return d.Obj(f)
}

// decodeStringField extracts a single string field from a JSON object body,
// ignoring any other keys.
func decodeStringField(body io.Reader, field string) (string, error) {
	var value string
	err := decodeObj(body, func(d *jx.Decoder, key string) error {
		if key != field {
			return d.Skip()
		}
		var err error
		value, err = d.Str()
		return err
	})
	return value, err
}
