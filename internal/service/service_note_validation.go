package service

import (
	"context"

	"github.com/MKhiriev/go-notes-keeper/internal/validators"
	"github.com/MKhiriev/go-notes-keeper/models"
)

// NoteServiceWrapper defines middleware composition for NoteService.
// Implementations wrap an existing NoteService to add behavior such as
// logging or validating.
type NoteServiceWrapper interface {
	Wrap(NoteService) NoteService // returns a decorated NoteService applying additional behavior
}

// NoteValidationService checks note payloads before they reach the wrapped
// NoteService. Calls without a payload pass straight through.
type NoteValidationService struct {
	inner     NoteService
	validator validators.Validator
}

func NewNoteValidationService(validator validators.Validator) NoteServiceWrapper {
	return &NoteValidationService{
		validator: validator,
	}
}

func (v *NoteValidationService) Wrap(inner NoteService) NoteService {
	v.inner = inner
	return v
}

func (v *NoteValidationService) ListNotes(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	return v.inner.ListNotes(ctx, filter)
}

func (v *NoteValidationService) CreateNote(ctx context.Context, userID int64, req models.NoteRequest) (models.Note, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.Note{}, validationError(err, ErrNoteFieldsRequired)
	}
	return v.inner.CreateNote(ctx, userID, req)
}

func (v *NoteValidationService) GetNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	return v.inner.GetNote(ctx, userID, noteID)
}

func (v *NoteValidationService) UpdateNote(ctx context.Context, userID, noteID int64, req models.NoteRequest) (models.Note, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.Note{}, validationError(err, ErrNoteFieldsRequired)
	}
	return v.inner.UpdateNote(ctx, userID, noteID, req)
}

func (v *NoteValidationService) SetFavorite(ctx context.Context, userID, noteID int64, favorite bool) (models.Note, error) {
	return v.inner.SetFavorite(ctx, userID, noteID, favorite)
}

func (v *NoteValidationService) DeleteNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	return v.inner.DeleteNote(ctx, userID, noteID)
}

func (v *NoteValidationService) RestoreNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	return v.inner.RestoreNote(ctx, userID, noteID)
}

func (v *NoteValidationService) PurgeNote(ctx context.Context, userID, noteID int64) error {
	return v.inner.PurgeNote(ctx, userID, noteID)
}
