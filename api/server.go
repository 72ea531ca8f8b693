/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a local frontend

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.ListAttendance)
			r.Post("/evaluate", h.EvaluateAttendance)
			r.Post("/mark", h.MarkAttendance)
			r.Delete("/{id}", h.RemoveAttendance)
		})

		r.Route("/config", func(r chi.Router) {
			r.Route("/office", func(r chi.Router) {
				r.Get("/", h.GetOfficeConfig)
				r.Put("/", h.SetOfficeConfig)
				r.Delete("/", h.ResetOfficeConfig)
			})
			r.Put("/radius", h.SetRadius)
			r.Route("/reminder", func(r chi.Router) {
				r.Get("/", h.GetReminder)
				r.Put("/", h.SetReminder)
			})
		})
	})

	return r
}
