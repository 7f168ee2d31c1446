package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/portfolio/internal/service"
)

const (
	contactSuccessMessage = "Message sent successfully! I'll get back to you soon."
	contactRequiredError  = "All fields are required"
	contactFailedError    = "Failed to send message. Please try again later."
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// Send relays a contact form submission. The response bodies are part of the
// public contract of the contact form and stay fixed.
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var msg service.ContactMessage
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&msg)
	if err != nil {
		slog.Warn("contact body unreadable", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": contactFailedError})
		return
	}

	err = h.contactService.Relay(r.Context(), msg)
	if errors.Is(err, service.ErrContactFieldsRequired) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": contactRequiredError})
		return
	}
	if err != nil {
		slog.Error("contact relay failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": contactFailedError})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": contactSuccessMessage})
}
