package http

import (
	"net/http"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/utils"
	"github.com/MKhiriev/go-notes-keeper/models"
)

const (
	msgRegistered      = "Registration successful"
	msgResetLinkSent   = "A password reset link has been sent to your email."
	msgPasswordReset   = "Your password has been updated."
	msgPasswordChanged = "Password changed successfully."

	msgRegisterFailed       = "An error occurred during registration."
	msgLoginFailed          = "An error occurred during login."
	msgForgotPasswordFailed = "Failed to send password reset email."
	msgResetPasswordFailed  = "An error occurred while resetting the password."
	msgChangePasswordFailed = "An error occurred while changing your password."
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgRegisterFailed)
		return
	}

	user, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, msgRegisterFailed)
		return
	}

	utils.WriteJSON(w, models.UserResponse{Message: msgRegistered, User: user}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgLoginFailed)
		return
	}

	user, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		writeServiceError(w, r, err, msgLoginFailed)
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, user)
	if err != nil {
		writeServiceError(w, r, err, msgLoginFailed)
		return
	}

	log.Debug().Int64("user_id", user.ID).Msg("user successfully logged in")
	utils.WriteJSON(w, models.LoginResponse{Token: token.String(), Username: user.Username}, http.StatusOK)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgForgotPasswordFailed)
		return
	}

	if err := h.services.AuthService.ForgotPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, err, msgForgotPasswordFailed)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: msgResetLinkSent}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgResetPasswordFailed)
		return
	}

	if err := h.services.AuthService.ResetPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, err, msgResetPasswordFailed)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: msgPasswordReset}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, err, msgChangePasswordFailed)
		return
	}

	var req models.ChangePasswordRequest
	if err = decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, msgChangePasswordFailed)
		return
	}

	if err = h.services.AuthService.ChangePassword(r.Context(), userID, req); err != nil {
		writeServiceError(w, r, err, msgChangePasswordFailed)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: msgPasswordChanged}, http.StatusOK)
}
