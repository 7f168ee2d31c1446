package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/service"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
)

// Paths called cross-origin without cookies
var csrfExemptPaths = []string{
	"/api/contact",
}

// CSRFProtection validates CSRF tokens on state-changing requests that carry
// the auth cookie. Must run after Auth.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := getOrGenerateCSRFToken(w, r)
		ctx := ctxkeys.WithCSRFToken(r.Context(), token)

		// Skip CSRF check for safe methods (GET, HEAD, OPTIONS)
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		for _, path := range csrfExemptPaths {
			if strings.HasPrefix(r.URL.Path, path) {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		// Bearer credentials are never sent by the browser on its own, and a
		// request without the auth cookie has no ambient identity to abuse.
		if ctxkeys.Bearer(r.Context()) || !hasAuthCookie(r) {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// Header first (HTMX via meta tag), then form field.
		// PostFormValue() parses both urlencoded and multipart bodies.
		submittedToken := r.Header.Get(csrfHeader)
		if submittedToken == "" {
			submittedToken = r.PostFormValue(csrfFormField)
		}

		if !validCSRFToken(token, submittedToken) {
			slog.Warn("csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
				"ip", getClientIP(r),
			)
			jsonError(w, http.StatusForbidden, "Invalid CSRF token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func hasAuthCookie(r *http.Request) bool {
	cookie, err := r.Cookie(service.AuthCookieName)
	return err == nil && cookie.Value != ""
}

// getOrGenerateCSRFToken retrieves existing token or generates new one
func getOrGenerateCSRFToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && cookie.Value != "" && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value
	}

	token := generateCSRFToken()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction, // APP_ENV based, r.TLS is unreliable behind load balancers
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7, // 7 days
	})

	return token
}

func generateCSRFToken() string {
	bytes := make([]byte, csrfTokenLen)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

// validCSRFToken performs constant-time comparison of tokens
func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
