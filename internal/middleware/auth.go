package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "marketsim/internal/errors"
)

// APIKeyAuth rejects requests lacking a valid X-API-Key header. An empty key
// set means auth is disabled (development).
func APIKeyAuth(keys map[string]struct{}, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(keys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				logger.WarnContext(r.Context(), "missing API key",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				)
				render.Render(w, r, apierrors.ErrMissingAPIKey)
				return
			}

			if _, ok := keys[key]; !ok {
				logger.WarnContext(r.Context(), "invalid API key",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				)
				render.Render(w, r, apierrors.ErrInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
