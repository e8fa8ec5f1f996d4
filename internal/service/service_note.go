package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/store"
	"github.com/MKhiriev/go-notes-keeper/models"
)

// noteService is the concrete implementation of NoteService. Every call is
// scoped to the owner; notes of other users are reported as not found.
type noteService struct {
	noteRepository store.NoteRepository
	logger         *logger.Logger
}

// NewNoteService returns a NoteService backed by noteRepository. Request
// payloads are not validated here; wrap the result with
// NewNoteValidationService for that.
func NewNoteService(noteRepository store.NoteRepository, logger *logger.Logger) NoteService {
	return &noteService{
		noteRepository: noteRepository,
		logger:         logger,
	}
}

// ListNotes returns the notes selected by filter. The result is never nil.
func (n *noteService) ListNotes(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	filter.Tag = strings.ToUpper(strings.TrimSpace(filter.Tag))

	notes, err := n.noteRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing notes failed: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}

	return notes, nil
}

func (n *noteService) CreateNote(ctx context.Context, userID int64, req models.NoteRequest) (models.Note, error) {
	note, err := n.noteRepository.Create(ctx, models.Note{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    models.NormalizeTags(req.Tags),
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("note creation failed")
		return models.Note{}, fmt.Errorf("note creation failed: %w", err)
	}

	return note, nil
}

func (n *noteService) GetNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	note, err := n.noteRepository.Get(ctx, userID, noteID)
	return note, noteError(err, ErrNoteNotFound)
}

// UpdateNote replaces title, content and tags of an active note.
func (n *noteService) UpdateNote(ctx context.Context, userID, noteID int64, req models.NoteRequest) (models.Note, error) {
	note, err := n.noteRepository.Update(ctx, models.Note{
		ID:      noteID,
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    models.NormalizeTags(req.Tags),
	})
	return note, noteError(err, ErrNoteNotFound)
}

func (n *noteService) SetFavorite(ctx context.Context, userID, noteID int64, favorite bool) (models.Note, error) {
	note, err := n.noteRepository.SetFavorite(ctx, userID, noteID, favorite)
	return note, noteError(err, ErrNoteNotFound)
}

func (n *noteService) DeleteNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	note, err := n.noteRepository.SoftDelete(ctx, userID, noteID)
	if err == nil {
		logger.FromContext(ctx).Debug().Int64("note_id", noteID).Msg("note moved to recently deleted")
	}
	return note, noteError(err, ErrNoteNotFound)
}

func (n *noteService) RestoreNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	note, err := n.noteRepository.Restore(ctx, userID, noteID)
	return note, noteError(err, ErrRecentlyDeletedNoteNotFound)
}

func (n *noteService) PurgeNote(ctx context.Context, userID, noteID int64) error {
	err := n.noteRepository.Purge(ctx, userID, noteID)
	if err == nil {
		logger.FromContext(ctx).Info().Int64("note_id", noteID).Msg("note permanently deleted")
	}
	return noteError(err, ErrRecentlyDeletedNoteNotFound)
}

// noteError maps store.ErrNoteNotFound to notFound and wraps anything else.
func noteError(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNoteNotFound):
		return notFound
	default:
		return fmt.Errorf("note operation failed: %w", err)
	}
}
