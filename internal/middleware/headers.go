package middleware

import (
	"net/http"

	"github.com/templui/portfolio/internal/ctxkeys"
)

// SecurityHeaders sets the response headers every endpoint shares.
// Needs Config earlier in the chain for the HSTS decision.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
