package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-notes-keeper/models"
)

// UserRepository is the credential store backed by the users table.
type UserRepository interface {
	// CreateUser inserts a user and returns it with server-assigned fields.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindUserByEmail returns the user including its password hash.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// FindUserByID returns the user including its password hash.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	// EmailTaken reports whether another user (id != excludeUserID) owns email.
	// Pass 0 to check against every user.
	EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error)
	// UsernameTaken reports whether another user owns username.
	UsernameTaken(ctx context.Context, username string, excludeUserID int64) (bool, error)
	// UpdateProfile overwrites the public profile fields and bumps updated_at.
	UpdateProfile(ctx context.Context, user models.User) (models.User, error)
	// UpdatePassword stores a new password hash and bumps updated_at.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	// DeleteUser removes the user; notes and reset tokens cascade.
	DeleteUser(ctx context.Context, userID int64) error
}

// ResetTokenRepository persists password reset tokens.
type ResetTokenRepository interface {
	// CreateToken stores a freshly issued token.
	CreateToken(ctx context.Context, token models.PasswordResetToken) (models.PasswordResetToken, error)
	// FindValidToken returns the token if it exists and has not expired.
	FindValidToken(ctx context.Context, token string) (models.PasswordResetToken, error)
	// RedeemToken deletes a valid token and stores the new password hash of
	// its owner in one transaction. It returns the owner's id.
	RedeemToken(ctx context.Context, token, passwordHash string) (int64, error)
	// DeleteExpired removes every expired token and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// NoteRepository persists notes. Every method is scoped to the owner, so
// notes of other users behave exactly like absent ones.
type NoteRepository interface {
	List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	Create(ctx context.Context, note models.Note) (models.Note, error)
	Get(ctx context.Context, userID, noteID int64) (models.Note, error)
	Update(ctx context.Context, note models.Note) (models.Note, error)
	SetFavorite(ctx context.Context, userID, noteID int64, favorite bool) (models.Note, error)
	SoftDelete(ctx context.Context, userID, noteID int64) (models.Note, error)
	Restore(ctx context.Context, userID, noteID int64) (models.Note, error)
	Purge(ctx context.Context, userID, noteID int64) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
