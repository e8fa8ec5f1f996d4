package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-notes-keeper/models"
)

// AuthService covers registration, login, session tokens and both password
// recovery flows.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// ForgotPassword issues a reset token for the account and mails a link to it.
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error
	// ResetPassword redeems a reset token. A token can be redeemed only once.
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (models.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

type NoteService interface {
	ListNotes(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	CreateNote(ctx context.Context, userID int64, req models.NoteRequest) (models.Note, error)
	GetNote(ctx context.Context, userID, noteID int64) (models.Note, error)
	UpdateNote(ctx context.Context, userID, noteID int64, req models.NoteRequest) (models.Note, error)
	SetFavorite(ctx context.Context, userID, noteID int64, favorite bool) (models.Note, error)

	// DeleteNote moves an active note to recently deleted.
	DeleteNote(ctx context.Context, userID, noteID int64) (models.Note, error)
	// RestoreNote moves a recently deleted note back to the active list.
	RestoreNote(ctx context.Context, userID, noteID int64) (models.Note, error)
	// PurgeNote permanently removes a recently deleted note.
	PurgeNote(ctx context.Context, userID, noteID int64) error
}

// PasswordHasher derives and checks password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	// Verify reports whether plain matches hash. A mismatch is not an error.
	Verify(ctx context.Context, plain, hash string) (bool, error)
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}
