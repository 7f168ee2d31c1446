package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/validation"
)

type failingSender struct{}

func (failingSender) Send(context.Context, service.Email) error {
	return errors.New("resend: 503")
}

func TestContactProviderFailure(t *testing.T) {
	h := NewContactHandler(service.NewContactService(failingSender{}, "from@example.com", "owner@example.com", "Owner"))

	rec := httptest.NewRecorder()
	body := `{"name":"Bo","email":"bo@example.com","subject":"Hi","message":"Hello"}`
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Failed to send message. Please try again later."}` {
		t.Errorf("body = %s", got)
	}
}

func TestContactMalformedBody(t *testing.T) {
	h := NewContactHandler(service.NewContactService(failingSender{}, "from@example.com", "owner@example.com", "Owner"))

	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("not json")))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestErrorResponse(t *testing.T) {
	verrs := &validation.Errors{}
	verrs.Add("title", "Title is required")

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", fmt.Errorf("create: %w", verrs), http.StatusUnprocessableEntity, "Validation failed"},
		{"file", fmt.Errorf("%w: image size should be less than 5MB", validation.ErrInvalidFile), http.StatusBadRequest, "Image size should be less than 5MB"},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, "You must be signed in"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "Not allowed"},
		{"not found", fmt.Errorf("project 1: %w", service.ErrNotFound), http.StatusNotFound, "Not found"},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"bad json", fmt.Errorf("%w: eof", errBadJSON), http.StatusBadRequest, "Invalid request body"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			if status != tt.status || body.Error != tt.msg {
				t.Errorf("errorResponse = %d %q, want %d %q", status, body.Error, tt.status, tt.msg)
			}
		})
	}

	_, body := errorResponse(verrs)
	if body.Fields["title"] != "Title is required" {
		t.Errorf("fields = %v", body.Fields)
	}
}

func TestReadUploadMissingFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/projects/image", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	_, _, err := readUpload(httptest.NewRecorder(), req)
	if !errors.Is(err, validation.ErrInvalidFile) {
		t.Errorf("err = %v", err)
	}
}
