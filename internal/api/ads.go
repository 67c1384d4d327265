package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.ads.ListCategories(r.Context())
	if err != nil {
		h.internalError(w, r, errors.Wrap(err, "list categories"))
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, c := range categories {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(c.Name)
			e.FieldStart("store_count")
			e.Int(c.StoreCount)
			e.FieldStart("free_ads")
			e.Bool(c.FreeAds)
			e.ObjEnd()
		}
		e.ArrEnd()
	})
}

func (h *Handler) listAds(w http.ResponseWriter, r *http.Request) {
	list, err := h.ads.ListAds(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.internalError(w, r, errors.Wrap(err, "list ads"))
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, a := range list {
			e.ObjStart()
			e.FieldStart("id")
			e.Str(a.ID)
			e.FieldStart("title")
			e.Str(a.Title)
			e.FieldStart("description")
			e.Str(a.Description)
			e.FieldStart("advertiser")
			e.Str(a.Advertiser)
			e.FieldStart("category")
			e.Str(a.Category)
			e.FieldStart("type")
			e.Str(string(a.Type))
			e.ObjEnd()
		}
		e.ArrEnd()
	})
}
