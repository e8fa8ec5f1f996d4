package models

// Request payloads accepted by the HTTP API. Validation rules are expressed
// with go-playground/validator tags and checked by the service layer.

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Email          string `json:"email" validate:"required"`
	Username       string `json:"username" validate:"required,max=10"`
	Password       string `json:"password" validate:"required"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the body of POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest is the body of POST /reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ChangePasswordRequest is the body of POST /change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /profile.
type UpdateProfileRequest struct {
	Email          string `json:"email" validate:"required"`
	Username       string `json:"username" validate:"required,max=10"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio"`
}

// NoteRequest is the body of POST /notes and PUT /notes/{id}.
type NoteRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// FavoriteRequest is the body of PUT /notes/{id}/favorite.
type FavoriteRequest struct {
	Favorite bool `json:"favorite"`
}
