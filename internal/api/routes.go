package api

import (
	"net/url"

	"github.com/nossoguia/guia-compras/internal/domain/pricing"
)

// cartPath is where a new order session is opened.
const cartPath = "/api/v1/cart"

// CartRoute builds the navigation URL that opens an order session seeded
// with the given store and weight class. Absent parameters are omitted and
// present ones are percent-encoded.
func CartRoute(store string, w pricing.WeightClass) string {
	q := url.Values{}
	if store != "" {
		q.Set("store", store)
	}
	if w != "" {
		q.Set("weight", string(w))
	}
	if len(q) == 0 {
		return cartPath
	}
	return cartPath + "?" + q.Encode()
}
