package models

import "time"

// MaxUsernameLength is the maximum number of characters allowed in a username.
const MaxUsernameLength = 10

// User represents an account entity used for authentication and profile data.
// PasswordHash is a bcrypt digest and is never serialized.
type User struct {
	// ID is the server-assigned identifier of the user. Immutable.
	ID int64 `json:"id"`

	// Email is unique among all users and is the login identifier.
	Email string `json:"email"`

	// Username is unique among all users and at most MaxUsernameLength characters long.
	Username string `json:"username"`

	// PasswordHash stores the bcrypt hash of the password, never the plaintext.
	PasswordHash string `json:"-"`

	// Name is the optional display name.
	Name *string `json:"name"`

	// ProfilePicture is an optional URL or opaque reference to an avatar.
	ProfilePicture *string `json:"profile_picture"`

	// Bio is an optional free-form description.
	Bio *string `json:"bio"`

	// CreatedAt is set once on registration.
	CreatedAt time.Time `json:"created_at,omitzero"`

	// UpdatedAt is bumped on every profile or password mutation.
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// OptionalString converts an empty string into nil so that absent optional
// profile fields are stored as NULL.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
