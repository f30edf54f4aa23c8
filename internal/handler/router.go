package handler

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/karanj/evently/internal/auth"
)

// NewRouter assembles the full route table with the global middleware stack.
func NewRouter(authHandler *AuthHandler, eventHandler *EventHandler, tokens *auth.TokenManager, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(RequestLogging(logger))  // structured access log

	// Health
	r.Get("/health", HealthCheck)

	// Public auth routes
	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)

	// Owner-scoped event routes behind the session gate
	r.Route("/events", func(r chi.Router) {
		r.Use(Authenticate(tokens))
		r.Post("/", eventHandler.Create)
		r.Get("/", eventHandler.List)
		r.Put("/{id}/priority", eventHandler.UpdatePriority)
		r.Put("/{id}/complete", eventHandler.MarkComplete)
		r.Delete("/{id}", eventHandler.Delete)
	})

	return r
}
