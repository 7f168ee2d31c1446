// Package cache holds read-through caching for list and profile queries.
// A Store can be in-process or Redis backed; Query collapses concurrent
// misses for the same key into one fetch.
package cache

import (
	"context"
	"time"
)

type Store interface {
	// GetJSON decodes the cached value for key into out. ok is false on a miss.
	GetJSON(ctx context.Context, key string, out any) (ok bool, err error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	KeyProjects     = "portfolio:projects"
	KeyCertificates = "portfolio:certificates"
	KeyDSAProblems  = "portfolio:dsa_problems"
	keyProfile      = "portfolio:profile:"
)

// KeyProfile is the cache key for the profile owned by userID.
func KeyProfile(userID string) string {
	return keyProfile + userID
}
