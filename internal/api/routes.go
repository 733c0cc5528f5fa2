package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ceirr/sample-dashboard/internal/gate"
)

// SetupRoutes configures the dashboard page, the download and the JSON API.
// The HTML routes check the secret inside the handler so a wrong password
// re-renders the form; /api uses the gate middleware.
func SetupRoutes(h *Handlers, g *gate.Gate, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Server-Identity", "ceirr-sample-dashboard")
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, req)
		})
	})

	hc := NewHealthChecker()
	r.Get("/health", hc.HandleHealth)
	r.Get("/health/live", hc.HandleLiveness)

	r.Get("/", h.HandleIndex)
	r.Post("/", h.HandleReport)
	r.Post("/export", h.HandleExport)

	r.Route("/api", func(r chi.Router) {
		if len(allowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: allowedOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"Accept", gate.HeaderName},
				MaxAge:         300,
			}))
		}
		r.Use(g.RequireSecret)
		r.Get("/report", h.HandleReportJSON)
		r.Get("/report/export", h.HandleExport)
	})

	return r
}
