package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/db/dbtest"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/service"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Join(order, ","); got != "first,second,handler" {
		t.Errorf("order = %s", got)
	}
}

func TestAuth(t *testing.T) {
	conn := dbtest.Open(t)
	authService := service.NewAuthService(repository.NewUserRepository(conn), "test-secret", time.Hour, false, false)
	userID := dbtest.CreateUser(t, conn, "owner@example.com")
	token, err := authService.GenerateJWT(&model.User{ID: userID, Email: "owner@example.com"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	var gotUser *model.User
	var gotBearer bool
	h := Auth(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = ctxkeys.User(r.Context())
		gotBearer = ctxkeys.Bearer(r.Context())
	}))

	tests := []struct {
		name        string
		setup       func(r *http.Request)
		wantUser    bool
		wantBearer  bool
		wantCleared bool
	}{
		{"anonymous", func(*http.Request) {}, false, false, false},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, true, true, false},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: token}) }, true, false, false},
		{"bad bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, false, false, false},
		{"bad cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: "nope"}) }, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotBearer = nil, false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if (gotUser != nil) != tt.wantUser {
				t.Fatalf("user = %v, want present %v", gotUser, tt.wantUser)
			}
			if gotUser != nil && gotUser.PasswordHash != nil {
				t.Error("password hash leaked into context")
			}
			if gotBearer != tt.wantBearer {
				t.Errorf("bearer = %v, want %v", gotBearer, tt.wantBearer)
			}
			cleared := strings.Contains(rec.Header().Get("Set-Cookie"), service.AuthCookieName+"=;")
			if cleared != tt.wantCleared {
				t.Errorf("cookie cleared = %v, want %v", cleared, tt.wantCleared)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	called := false
	h := RequireAuth(func(http.ResponseWriter, *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/projects", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("anonymous: status %d, called %v", rec.Code, called)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/projects", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	h(httptest.NewRecorder(), req)
	if !called {
		t.Error("signed in request not passed through")
	}
}

func TestCSRFProtection(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := CSRFProtection(ok)
	csrf := generateCSRFToken()
	authCookie := &http.Cookie{Name: service.AuthCookieName, Value: "jwt"}

	tests := []struct {
		name   string
		path   string
		setup  func(r *http.Request) *http.Request
		status int
	}{
		{"get always passes", "/api/projects", func(r *http.Request) *http.Request {
			r.Method = http.MethodGet
			r.AddCookie(authCookie)
			return r
		}, http.StatusNoContent},
		{"no auth cookie", "/api/projects", func(r *http.Request) *http.Request { return r }, http.StatusNoContent},
		{"cookie without token", "/api/projects", func(r *http.Request) *http.Request {
			r.AddCookie(authCookie)
			return r
		}, http.StatusForbidden},
		{"cookie with token", "/api/projects", func(r *http.Request) *http.Request {
			r.AddCookie(authCookie)
			r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: csrf})
			r.Header.Set(csrfHeader, csrf)
			return r
		}, http.StatusNoContent},
		{"bearer", "/api/projects", func(r *http.Request) *http.Request {
			r.AddCookie(authCookie)
			return r.WithContext(ctxkeys.WithBearer(r.Context(), true))
		}, http.StatusNoContent},
		{"contact exempt", "/api/contact", func(r *http.Request) *http.Request {
			r.AddCookie(authCookie)
			return r
		}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.setup(httptest.NewRequest(http.MethodPost, tt.path, nil))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS("")(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodOptions, "/api/contact", nil))
	if rec.Code != http.StatusOK || called {
		t.Fatalf("preflight: status %d, called %v", rec.Code, called)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Errorf("allow headers = %q", got)
	}

	rec = httptest.NewRecorder()
	CORS("https://me.dev")(func(http.ResponseWriter, *http.Request) { called = true })(rec, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	if !called || rec.Header().Get("Access-Control-Allow-Origin") != "https://me.dev" {
		t.Errorf("post: called %v, origin %q", called, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	allow := func(key string) bool {
		ok, _ := rl.Allow(key)
		return ok
	}

	if !allow("1.1.1.1") {
		t.Fatal("first request rejected")
	}
	now = now.Add(20 * time.Second)
	if !allow("1.1.1.1") {
		t.Fatal("second request rejected")
	}

	ok, retry := rl.Allow("1.1.1.1")
	if ok {
		t.Error("third request allowed")
	}
	if retry != 40*time.Second {
		t.Errorf("retry = %v, want 40s", retry)
	}
	if !allow("2.2.2.2") {
		t.Error("other ip rejected")
	}

	now = now.Add(41 * time.Second)
	if !allow("1.1.1.1") {
		t.Error("request after oldest expired rejected")
	}

	now = now.Add(5 * time.Minute)
	allow("3.3.3.3")
	if _, ok := rl.hits["2.2.2.2"]; ok {
		t.Error("idle key not swept")
	}
}

func TestRateLimitResponds429(t *testing.T) {
	h := RateLimit(1, time.Minute)(func(w http.ResponseWriter, r *http.Request) {})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/signin", nil))
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/auth/signin", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.9 "}, "1.2.3.4:80", "10.0.0.9"},
		{"remote addr", nil, "1.2.3.4:5555", "1.2.3.4"},
		{"ipv6 remote", nil, "[::1]:5555", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigRequestID(t *testing.T) {
	cfg := &config.Config{AppName: "Portfolio", AppEnv: "production", JWTSecret: "secret"}

	var seen *config.Config
	var id string
	h := Config(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.Config(r.Context())
		id = ctxkeys.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == nil || seen.JWTSecret != "" || !seen.IsProduction() {
		t.Errorf("config in context = %+v", seen)
	}
	if id == "" || rec.Header().Get("X-Request-ID") != id {
		t.Errorf("request id = %q, header %q", id, rec.Header().Get("X-Request-ID"))
	}

	const incoming = "5f0c3a55-7f63-4d9b-9a43-3f9e8f1a2b3c"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if id != incoming {
		t.Errorf("incoming id replaced: %q", id)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if id == "<script>" {
		t.Error("invalid incoming id kept")
	}
}
