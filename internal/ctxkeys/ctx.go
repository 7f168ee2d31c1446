package ctxkeys

import (
	"context"

	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey      contextKey = "user"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
	BearerKey    contextKey = "bearer"
	RequestIDKey contextKey = "request_id"
)

// User returns the signed-in identity, or nil for anonymous callers.
func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserID is the identity's id or "".
func UserID(ctx context.Context) string {
	if user := User(ctx); user != nil {
		return user.ID
	}
	return ""
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

// Bearer reports whether the identity came from an Authorization header
// rather than the session cookie.
func Bearer(ctx context.Context) bool {
	bearer, _ := ctx.Value(BearerKey).(bool)
	return bearer
}

func WithBearer(ctx context.Context, bearer bool) context.Context {
	return context.WithValue(ctx, BearerKey, bearer)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
