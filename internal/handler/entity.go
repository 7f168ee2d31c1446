package handler

import (
	"context"
	"net/http"
	"strings"
)

// entityService is the shape shared by the project, certificate and DSA
// problem services.
type entityService[T, In, Patch any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id string, patch Patch) (T, error)
	Delete(ctx context.Context, id string) error
}

// EntityHandler serves list/create/update/delete for one table.
type EntityHandler[T, In, Patch any] struct {
	service entityService[T, In, Patch]
	label   string
}

func newEntityHandler[T, In, Patch any](service entityService[T, In, Patch], label string) *EntityHandler[T, In, Patch] {
	return &EntityHandler[T, In, Patch]{service: service, label: label}
}

func (h *EntityHandler[T, In, Patch]) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		fail(w, r, err, "Failed to load "+h.plural())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (h *EntityHandler[T, In, Patch]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	err := decodeJSON(w, r, &in)
	if err != nil {
		fail(w, r, err, "Failed to add "+h.lower())
		return
	}

	row, err := h.service.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err, "Failed to add "+h.lower())
		return
	}

	respond(w, r, http.StatusCreated, row, success("Success", h.label+" added successfully"))
}

func (h *EntityHandler[T, In, Patch]) Update(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	err := decodeJSON(w, r, &patch)
	if err != nil {
		fail(w, r, err, "Failed to update "+h.lower())
		return
	}

	row, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, r, err, "Failed to update "+h.lower())
		return
	}

	respond(w, r, http.StatusOK, row, success("Success", h.label+" updated successfully"))
}

func (h *EntityHandler[T, In, Patch]) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "Failed to delete "+h.lower())
		return
	}

	respond(w, r, http.StatusOK, nil, success("Success", h.label+" deleted successfully"))
}

func (h *EntityHandler[T, In, Patch]) lower() string {
	return strings.ToLower(h.label)
}

func (h *EntityHandler[T, In, Patch]) plural() string {
	return h.lower() + "s"
}
