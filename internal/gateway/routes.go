package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// buildRouter assembles the route tree.
//
// Public: /health, /metrics. Ingest: key-free by default, optionally gated
// by the ingest token, always rate limited and replay-deduplicated.
// Operator: session inspection and the event feed, gated by the auth token
// when one is configured.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/ws", s.handleFeed)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Use(s.requireToken(s.cfg.IngestToken))
			r.Use(s.idempotency)
			r.Post("/ingest", s.handleIngest)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken(s.cfg.AuthToken))
			r.Get("/sessions", s.handleSessionList)
			r.Get("/sessions/{id}", s.handleSessionGet)
		})
	})

	return r
}
