package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/atlas-pos/atlas-analytics/internal/platform/httpx"
)

// RequireToken rejects requests without a valid bearer token and stashes
// the resolved subject on the context for downstream handlers.
func RequireToken(logger *slog.Logger, store *TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			subject, err := store.Validate(r.Context(), token)
			if err != nil {
				if logger != nil && !errors.Is(err, ErrTokenInvalid) {
					logger.Error("validate token", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid bearer token")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
