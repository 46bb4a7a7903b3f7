package analytichttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/atlas-pos/atlas-analytics/internal/auth"
)

// MountRoutes registers analytics endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(30, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/sales", h.handleSales)
		gr.Get("/inventory", h.handleInventory)
		gr.Get("/financial", h.handleFinancial)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if subject := auth.SubjectFromContext(r.Context()); subject != "" {
		return "subject:" + subject, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
