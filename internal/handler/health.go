package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Check reports whether a dependency answers, e.g. db.PingContext.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		err := check(ctx)
		if err != nil {
			slog.Warn("health check failed", "check", name, "error", err)
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	writeJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": results})
}
