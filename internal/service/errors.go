package service

import "errors"

// Validation errors. Each one corresponds to a single 400 response.
var (
	ErrRegisterFieldsRequired       = errors.New("email, username and password are required")
	ErrUsernameTooLong              = errors.New("username is longer than 10 characters")
	ErrLoginFieldsRequired          = errors.New("email and password are required")
	ErrEmailRequired                = errors.New("email is required")
	ErrResetFieldsRequired          = errors.New("token and new password are required")
	ErrChangePasswordFieldsRequired = errors.New("current and new passwords are required")
	ErrProfileFieldsRequired        = errors.New("email and username are required")
	ErrNoteFieldsRequired           = errors.New("title and content are required")
)

// Uniqueness conflicts. Registration and profile update report them with
// different wording, so they are kept apart.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUsernameAlreadyTaken   = errors.New("username already taken")
	ErrEmailInUse             = errors.New("email is already in use")
	ErrUsernameInUse          = errors.New("username is already in use")
)

var (
	ErrInvalidCredentials   = errors.New("incorrect email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrSendingEmail         = errors.New("failed to send password reset email")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordTooLong      = errors.New("password is longer than 72 bytes")
	ErrMalformedHash        = errors.New("stored password hash is malformed")

	ErrNoteNotFound                = errors.New("note not found or access denied")
	ErrRecentlyDeletedNoteNotFound = errors.New("note not found in recently deleted or access denied")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
)
