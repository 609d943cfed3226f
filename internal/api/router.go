package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires the JSON API and the HTML view. Extra middleware runs after
// the request id is assigned.
func Router(h *Handler, mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw...)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/messages", h.ListMessages)

		r.Get("/compose", h.GetCompose)
		r.Put("/compose", h.UpdateCompose)
		r.Post("/compose/submit", h.SubmitCompose)
	})

	r.Get("/", h.Page)
	r.Post("/compose", h.SubmitForm)

	return r
}
