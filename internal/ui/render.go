package ui

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// ToastTarget is where out-of-band notifications are appended on the page.
const ToastTarget = "beforeend:#toast-container"

func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	err := c.Render(r.Context(), w)
	if err != nil {
		slog.Error("render failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func RenderOOB(w http.ResponseWriter, r *http.Request, c templ.Component, target string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	_, err := fmt.Fprintf(w, `<div hx-swap-oob="%s">`, templ.EscapeString(target))
	if err != nil {
		slog.Error("render oob write wrapper start failed", "error", err)
		return
	}

	err = c.Render(r.Context(), w)
	if err != nil {
		slog.Error("render oob component render failed", "error", err)
		return
	}

	_, err = w.Write([]byte(`</div>`))
	if err != nil {
		slog.Error("render oob write wrapper end failed", "error", err)
	}
}
