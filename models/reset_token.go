package models

import "time"

// PasswordResetToken is a single-use credential that authorizes a password
// reset without the current password. It is valid while ExpiresAt is in the future
// and is deleted on successful redemption.
type PasswordResetToken struct {
	// Token is the opaque random value (64 hex characters) sent to the user.
	Token string

	// UserID references the owner of the token.
	UserID int64

	// ExpiresAt is the moment after which the token can no longer be redeemed.
	ExpiresAt time.Time

	// CreatedAt is the moment the token was issued.
	CreatedAt time.Time
}

// IsValidAt reports whether the token may be redeemed at the given time.
func (t PasswordResetToken) IsValidAt(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

// TableName returns the name of the database table
// associated with the PasswordResetToken model.
func (t PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
