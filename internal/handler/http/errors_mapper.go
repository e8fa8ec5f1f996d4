package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/service"
	"github.com/MKhiriev/go-notes-keeper/internal/utils"
)

type errorResponse struct {
	status  int
	message string
}

var errorResponseMap = map[error]errorResponse{
	service.ErrRegisterFieldsRequired:       {http.StatusBadRequest, "Email, username, and password are required."},
	service.ErrUsernameTooLong:              {http.StatusBadRequest, "Username must be 10 characters or less."},
	service.ErrLoginFieldsRequired:          {http.StatusBadRequest, "Both email and password are required."},
	service.ErrEmailRequired:                {http.StatusBadRequest, "Email is required."},
	service.ErrResetFieldsRequired:          {http.StatusBadRequest, "Token and new password are required."},
	service.ErrChangePasswordFieldsRequired: {http.StatusBadRequest, "Current and new passwords must be provided."},
	service.ErrProfileFieldsRequired:        {http.StatusBadRequest, "Email and username are required."},
	service.ErrNoteFieldsRequired:           {http.StatusBadRequest, "Title and content are required."},
	service.ErrPasswordTooLong:              {http.StatusBadRequest, "Password must be 72 bytes or less."},

	service.ErrEmailAlreadyRegistered: {http.StatusBadRequest, "Email already registered."},
	service.ErrUsernameAlreadyTaken:   {http.StatusBadRequest, "Username already taken."},
	service.ErrEmailInUse:             {http.StatusBadRequest, "Email is already in use."},
	service.ErrUsernameInUse:          {http.StatusBadRequest, "Username is already in use."},

	service.ErrInvalidCredentials:   {http.StatusUnauthorized, "Incorrect email or password."},
	service.ErrWrongCurrentPassword: {http.StatusUnauthorized, "The current password you entered is incorrect."},
	service.ErrUserNotFound:         {http.StatusNotFound, "User not found."},
	service.ErrInvalidResetToken:    {http.StatusBadRequest, "Invalid or expired token."},
	service.ErrSendingEmail:         {http.StatusInternalServerError, "Failed to send password reset email."},

	service.ErrNoteNotFound:                {http.StatusNotFound, "Note not found or access denied."},
	service.ErrRecentlyDeletedNoteNotFound: {http.StatusNotFound, "Note not found in recently deleted or access denied."},

	ErrInvalidRequestBody: {http.StatusBadRequest, msgInvalidBody},
	ErrNoClaimsInContext:  {http.StatusUnauthorized, msgNoToken},
}

// responseFromError picks the status and message for err. Errors not in
// errorResponseMap are internal failures reported with fallback.
func responseFromError(err error, fallback string) errorResponse {
	for target, resp := range errorResponseMap {
		if errors.Is(err, target) {
			return resp
		}
	}
	return errorResponse{status: http.StatusInternalServerError, message: fallback}
}

// writeServiceError writes the response for err and logs internal failures.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	resp := responseFromError(err, fallback)

	log := logger.FromRequest(r)
	if resp.status >= http.StatusInternalServerError {
		log.Err(err).Msg(fallback)
	} else {
		log.Debug().Err(err).Int("status", resp.status).Msg("request rejected")
	}

	utils.WriteError(w, resp.message, resp.status)
}
