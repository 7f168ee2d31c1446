package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/service"
)

// Auth resolves the caller from an Authorization bearer token or the auth cookie
// and adds the user to the context. Requests without valid credentials continue
// anonymously; RequireAuth decides whether that is enough.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Bearer token (CLI, SDK) wins over the browser cookie
			if token, ok := bearerToken(r); ok {
				user, err := authService.UserFromToken(r.Context(), token)
				if err != nil {
					next.ServeHTTP(w, r)
					return
				}
				ctx := ctxkeys.WithUser(r.Context(), user)
				ctx = ctxkeys.WithBearer(ctx, true)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.UserFromToken(r.Context(), cookie.Value)
			if err != nil {
				// Expired, tampered or the user is gone
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			jsonError(w, http.StatusUnauthorized, "You must be signed in")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
