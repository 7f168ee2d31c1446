package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/ctxkeys"
)

// Config puts the public part of the configuration and a request id into the
// request context. An incoming X-Request-ID is kept when it looks like a UUID.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	public := cfg.Sanitized()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if uuid.Validate(id) != nil {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)

			ctx := ctxkeys.WithConfig(r.Context(), public)
			ctx = ctxkeys.WithRequestID(ctx, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
