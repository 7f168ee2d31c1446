package handler

import (
	"net/http"

	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// Show returns the profile for ?user_id=, the signed-in identity or the site
// owner. data is null while the profile has never been saved; owner_id names
// whose profile was resolved, empty when there is nobody to show.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	ownerID := h.profileService.Target(r.Context(), r.URL.Query().Get("user_id"))
	profile, err := h.profileService.Get(r.Context(), ownerID)
	if err != nil {
		fail(w, r, err, "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": profile, "owner_id": ownerID})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.ProfilePatch
	err := decodeJSON(w, r, &patch)
	if err != nil {
		fail(w, r, err, "Failed to update profile")
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), patch)
	if err != nil {
		fail(w, r, err, "Failed to update profile")
		return
	}

	respond(w, r, http.StatusOK, profile, success("Success", "Profile updated successfully"))
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	up, closeFile, err := readUpload(w, r)
	if err != nil {
		fail(w, r, err, "Failed to upload avatar")
		return
	}
	defer closeFile()

	profile, err := h.profileService.UploadAvatar(r.Context(), up)
	if err != nil {
		fail(w, r, err, "Failed to upload avatar")
		return
	}

	respond(w, r, http.StatusOK, profile, success("Success", "Avatar uploaded successfully"))
}
