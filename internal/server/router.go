package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"locatrajes/internal/auth"
	"locatrajes/internal/infrastructure/metrics"
)

type RouteMounter interface {
	Routes(r chi.Router)
}

// NewRouter serves /health and /metrics openly and mounts the API under
// /api behind bearer authentication. m may be nil when metrics are disabled.
func NewRouter(api RouteMounter, m *metrics.Metrics, jwtSecret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret, logger))
		api.Routes(r)
	})

	return r
}
