// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a Go client for the notes server HTTP API.
//
// The primary abstraction is [ServerAdapter], which hides the transport from
// callers such as the command-line client. [NewHTTPServerAdapter] returns the
// REST implementation built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] (e.g. [ErrNotFound] for
// 404, [ErrUnauthorized] for 401). The server's message is kept in the error
// text.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-notes-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// NoteQuery narrows ListNotes. The zero value lists every active note.
type NoteQuery struct {
	Tag           string
	FavoritesOnly bool
}

// ServerAdapter defines communication with the notes server. Implementations
// are responsible for serialisation, the Authorization header and mapping
// transport-level errors to the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the session token attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the stored session token, or an empty string.
	Token() string

	// Register creates an account. It does not log in.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)

	// Login authenticates and stores the returned session token.
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)

	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error)

	GetProfile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.User, error)
	DeleteAccount(ctx context.Context) (string, error)

	ListNotes(ctx context.Context, query NoteQuery) ([]models.Note, error)
	CreateNote(ctx context.Context, req models.NoteRequest) (models.Note, error)
	GetNote(ctx context.Context, noteID int64) (models.Note, error)
	UpdateNote(ctx context.Context, noteID int64, req models.NoteRequest) (models.Note, error)
	SetFavorite(ctx context.Context, noteID int64, favorite bool) (models.Note, error)

	// DeleteNote moves a note to recently deleted.
	DeleteNote(ctx context.Context, noteID int64) (models.Note, error)

	ListRecentlyDeleted(ctx context.Context) ([]models.Note, error)
	RestoreNote(ctx context.Context, noteID int64) (models.Note, error)

	// PurgeNote permanently deletes a note from recently deleted.
	PurgeNote(ctx context.Context, noteID int64) (string, error)
}
