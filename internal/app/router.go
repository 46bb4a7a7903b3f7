package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/atlas-pos/atlas-analytics/internal/analytics/http"
	"github.com/atlas-pos/atlas-analytics/internal/auth"
	"github.com/atlas-pos/atlas-analytics/internal/observability"
	"github.com/atlas-pos/atlas-analytics/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	TokenStore       *auth.TokenStore
	AnalyticsHandler *analytichttp.Handler
	JobsHandler      *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Atlas defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AnalyticsHandler != nil {
		r.Route("/api/analytics", func(r chi.Router) {
			r.Use(auth.RequireToken(params.Logger, params.TokenStore))
			params.AnalyticsHandler.MountRoutes(r)
		})
	}

	if params.JobsHandler != nil {
		r.Route("/api/jobs", func(r chi.Router) {
			r.Use(auth.RequireToken(params.Logger, params.TokenStore))
			params.JobsHandler.MountRoutes(r)
		})
	}

	return r
}
