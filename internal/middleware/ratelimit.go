package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a sliding-window counter keyed by client IP.
type RateLimiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	limit     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a request for key. When the window is full it returns false
// and how long until the oldest request falls out of it.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)
	rl.sweep(now, cutoff)

	recent := rl.hits[key][:0]
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.hits[key] = recent
		return false, recent[0].Sub(cutoff)
	}

	rl.hits[key] = append(recent, now)
	return true, 0
}

// sweep drops idle keys at most once per window. Caller holds mu.
func (rl *RateLimiter) sweep(now, cutoff time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now

	for key, times := range rl.hits {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(rl.hits, key)
		}
	}
}

// RateLimit wraps handlers with one limiter shared by everything it wraps.
// Rejected requests get 429 and Retry-After in whole seconds.
func RateLimit(limit int, window time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			ok, retry := limiter.Allow(ip)
			if !ok {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				jsonError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next(w, r)
		}
	}
}

// RateLimitAuth allows 5 sign-in or sign-up attempts per 15 minutes.
func RateLimitAuth() func(http.HandlerFunc) http.HandlerFunc {
	return RateLimit(5, 15*time.Minute)
}

// RateLimitContact allows 5 contact messages per hour.
func RateLimitContact() func(http.HandlerFunc) http.HandlerFunc {
	return RateLimit(5, time.Hour)
}

// getClientIP prefers the first proxy hop, then X-Real-IP, then the peer.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
