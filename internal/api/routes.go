package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	if len(s.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", userIDHeader, "Idempotency-Key", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tags", s.handleListTags)
		r.Get("/tags/resolve", s.handleResolveTags)

		r.Group(func(r chi.Router) {
			r.Use(s.userMiddleware)
			if s.Limiter != nil {
				r.Use(s.rateLimitMiddleware)
			}

			r.Get("/due", s.handleDueCards)
			r.Post("/cards/{id}/rate", s.handleRateCard)
			r.Post("/sessions", s.handleStartSession)
			r.Get("/sessions/{id}", s.handleSessionTally)
			r.Post("/sessions/{id}/end", s.handleEndSession)
			r.Get("/progress", s.handleProgress)
			r.Put("/progress/goal", s.handleSetGoal)
		})
	})
	return r
}
