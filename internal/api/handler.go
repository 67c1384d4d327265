// Package api exposes the directory and cart session endpoints over HTTP.
// Handlers are hand-written on net/http; JSON is encoded with go-faster/jx
// and money crosses the boundary as float64, rounded upstream.
package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/nossoguia/guia-compras/internal/domain/ads"
	"github.com/nossoguia/guia-compras/internal/domain/store"
	"github.com/nossoguia/guia-compras/internal/session"
)

// Handler serves the JSON API, delegating to the injected repositories and
// the cart session manager.
type Handler struct {
	directory     store.Repository
	registrations store.RegistrationRepository
	ads           ads.Repository
	sessions      *session.Manager
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	directory store.Repository,
	registrations store.RegistrationRepository,
	adRepo ads.Repository,
	sessions *session.Manager,
) *Handler {
	return &Handler{
		directory:     directory,
		registrations: registrations,
		ads:           adRepo,
		sessions:      sessions,
	}
}

// Routes returns the mux with every API endpoint registered.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/categories", h.listCategories)
	mux.HandleFunc("GET /api/v1/ads", h.listAds)
	mux.HandleFunc("GET /api/v1/stores", h.listStores)
	mux.HandleFunc("GET /api/v1/distributors", h.listDistributors)
	mux.HandleFunc("POST /api/v1/registrations", h.createRegistration)

	mux.HandleFunc("POST /api/v1/cart", h.createCart)
	mux.HandleFunc("GET /api/v1/cart/{id}", h.getCart)
	mux.HandleFunc("POST /api/v1/cart/{id}/items", h.addItem)
	mux.HandleFunc("POST /api/v1/cart/{id}/items/{index}/increment", h.incrementItem)
	mux.HandleFunc("POST /api/v1/cart/{id}/items/{index}/decrement", h.decrementItem)
	mux.HandleFunc("DELETE /api/v1/cart/{id}/items/{index}", h.removeItem)
	mux.HandleFunc("PUT /api/v1/cart/{id}/mode", h.setMode)
	mux.HandleFunc("PUT /api/v1/cart/{id}/payment", h.setPayment)
	mux.HandleFunc("PUT /api/v1/cart/{id}/store", h.setStore)
	mux.HandleFunc("POST /api/v1/cart/{id}/checkout", h.checkout)

	return mux
}

// writeJSON encodes a response body with the given encoder function.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError encodes the error shape shared by every endpoint.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// internalError logs the failure and hides the cause from the client.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}
