package http

import (
	"net/http"

	"github.com/MKhiriev/go-notes-keeper/internal/utils"
	"github.com/MKhiriev/go-notes-keeper/models"
)

const (
	msgProfileUpdated = "Profile updated successfully."
	msgAccountDeleted = "Account deleted successfully."

	msgGetProfileFailed    = "An error occurred while fetching profile details."
	msgUpdateProfileFailed = "An error occurred while updating profile."
	msgDeleteAccountFailed = "An error occurred while deleting account."
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, err, msgGetProfileFailed)
		return
	}

	user, err := h.services.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, msgGetProfileFailed)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, err, msgUpdateProfileFailed)
		return
	}

	var req models.UpdateProfileRequest
	if err = decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgUpdateProfileFailed)
		return
	}

	user, err := h.services.ProfileService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err, msgUpdateProfileFailed)
		return
	}

	utils.WriteJSON(w, models.UserResponse{Message: msgProfileUpdated, User: user}, http.StatusOK)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, err, msgDeleteAccountFailed)
		return
	}

	if err = h.services.ProfileService.DeleteAccount(r.Context(), userID); err != nil {
		writeServiceError(w, r, err, msgDeleteAccountFailed)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: msgAccountDeleted}, http.StatusOK)
}
