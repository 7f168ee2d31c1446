package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/ui"
	"github.com/templui/portfolio/internal/ui/components/toast"
	"github.com/templui/portfolio/internal/validation"
)

// maxJSONBody caps request bodies that are not file uploads.
const maxJSONBody = 1 << 20 // 1MB

var errBadJSON = errors.New("invalid JSON body")

// Envelope is the body of every mutating endpoint.
type Envelope struct {
	Data         any                `json:"data"`
	Notification model.Notification `json:"notification"`
}

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", errBadJSON)
	}
	return nil
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// respond writes the outcome of a mutation: JSON for API callers, an
// out-of-band toast for HTMX.
func respond(w http.ResponseWriter, r *http.Request, status int, data any, n model.Notification) {
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		ui.RenderOOB(w, r, toast.Toast(toast.FromNotification(n)), ui.ToastTarget)
		return
	}
	writeJSON(w, status, Envelope{Data: data, Notification: n})
}

// fail maps err onto a status and an error body. HTMX callers get a 200 with
// an error toast so the swap still happens.
func fail(w http.ResponseWriter, r *http.Request, err error, title string) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		slog.Error(title, "error", err, "method", r.Method, "path", r.URL.Path)
	} else {
		slog.Debug(title, "error", err, "status", status, "path", r.URL.Path)
	}

	if isHTMX(r) {
		n := model.Notification{Title: title, Description: body.Error, Variant: model.NotificationError}
		ui.RenderOOB(w, r, toast.Toast(toast.FromNotification(n)), ui.ToastTarget)
		return
	}
	writeJSON(w, status, body)
}

func errorResponse(err error) (int, ErrorBody) {
	var verrs *validation.Errors
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "Validation failed", Fields: verrs.Fields}
	case errors.Is(err, validation.ErrInvalidFile):
		return http.StatusBadRequest, ErrorBody{Error: fileMessage(err)}
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, ErrorBody{Error: "Request body is too large"}
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest, ErrorBody{Error: "Invalid request body"}
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorBody{Error: "You must be signed in"}
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrPasswordless):
		return http.StatusUnauthorized, ErrorBody{Error: "Invalid email or password"}
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrSignupDisabled):
		return http.StatusForbidden, ErrorBody{Error: capitalize(err.Error())}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Error: "Not found"}
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return http.StatusConflict, ErrorBody{Error: "Email already in use"}
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "Validation failed", Fields: map[string]string{"email": "Invalid email address"}}
	case errors.Is(err, service.ErrInvalidCurrentPassword):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "Validation failed", Fields: map[string]string{"current_password": "Current password is incorrect"}}
	default:
		return http.StatusInternalServerError, ErrorBody{Error: "Something went wrong. Please try again."}
	}
}

// fileMessage drops the "invalid file: " prefix so only the reason is shown.
func fileMessage(err error) string {
	_, reason, ok := strings.Cut(err.Error(), validation.ErrInvalidFile.Error()+": ")
	if !ok || reason == "" {
		return "Invalid file"
	}
	return capitalize(reason)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func success(title, description string) model.Notification {
	return model.Notification{Title: title, Description: description, Variant: model.NotificationSuccess}
}
