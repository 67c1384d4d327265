package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/nossoguia/guia-compras/internal/domain/pricing"
)

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.directory.ListStores(r.Context())
	if err != nil {
		h.internalError(w, r, errors.Wrap(err, "list stores"))
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, s := range stores {
			e.ObjStart()
			e.FieldStart("id")
			e.Str(s.ID)
			e.FieldStart("name")
			e.Str(s.Name)
			e.FieldStart("category")
			e.Str(s.Category)
			e.FieldStart("ad_count")
			e.Int(s.AdCount)
			e.FieldStart("featured")
			e.Bool(s.Featured)
			e.ObjEnd()
		}
		e.ArrEnd()
	})
}

// listDistributors returns each gas distributor with its delivery profile, a
// current price quote per weight class, and the route that opens an order
// session against it.
func (h *Handler) listDistributors(w http.ResponseWriter, r *http.Request) {
	distributors, err := h.directory.ListDistributors(r.Context())
	if err != nil {
		h.internalError(w, r, errors.Wrap(err, "list distributors"))
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, d := range distributors {
			e.ObjStart()
			e.FieldStart("id")
			e.Str(d.ID)
			e.FieldStart("name")
			e.Str(d.Name)
			e.FieldStart("slogan")
			e.Str(d.Slogan)
			e.FieldStart("distance_km")
			e.Float64(d.DistanceKm.InexactFloat64())
			e.FieldStart("delivery_window")
			e.Str(d.DeliveryWindow)
			e.FieldStart("rating")
			e.Int(d.Rating)
			e.FieldStart("fast")
			e.Bool(d.Fast)
			e.FieldStart("prices")
			e.ArrStart()
			for _, class := range pricing.Classes {
				pickup := pricing.PickupPriceFor(class)
				e.ObjStart()
				e.FieldStart("weight")
				e.Str(string(class))
				e.FieldStart("pickup")
				e.Float64(pickup.InexactFloat64())
				e.FieldStart("delivery")
				e.Float64(pricing.DeliveryPriceFor(class, pickup).InexactFloat64())
				e.FieldStart("order_route")
				e.Str(CartRoute(d.Name, class))
				e.ObjEnd()
			}
			e.ArrEnd()
			e.FieldStart("order_route")
			e.Str(CartRoute(d.Name, ""))
			e.ObjEnd()
		}
		e.ArrEnd()
	})
}
