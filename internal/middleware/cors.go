package middleware

import "net/http"

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

// CORS lets browser forms on another origin call a public endpoint.
// Preflight requests are answered here and never reach next.
func CORS(allowOrigin string) func(http.HandlerFunc) http.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next(w, r)
		}
	}
}
