// Package api exposes the recommendation service over HTTP. The engine
// itself stays transport-agnostic; this layer fetches snapshots from
// storage, invokes the core, and fires the notification collaborator.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cardwise/internal/augment"
	"cardwise/internal/service"
)

// NewRouter builds the HTTP router for the recommendation service.
func NewRouter(store service.Storage, svc *augment.Service, notifier service.Notifier) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	h := NewHandler(store, svc, notifier)

	r.Route("/cards", func(r chi.Router) {
		r.Get("/", h.ListCards)
		r.Post("/", h.CreateCard)
	})
	r.Post("/recommend", h.Recommend)
	r.Post("/spend", h.RecordSpending)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
