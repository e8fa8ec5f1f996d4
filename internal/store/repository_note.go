package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/models"
)

// noteRepository is the PostgreSQL-backed implementation of [NoteRepository].
// Queries are assembled with squirrel in sql_queries.go; every statement is
// constrained by user_id so foreign notes are indistinguishable from absent ones.
type noteRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewNoteRepository constructs a [NoteRepository] backed by db.
func NewNoteRepository(db *DB, logger *logger.Logger) NoteRepository {
	logger.Debug().Msg("creating note repository")
	return &noteRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var note models.Note
	var deletedAt sql.NullTime

	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.Tags,
		&note.IsFavorite,
		&note.CreatedAt,
		&note.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return models.Note{}, err
	}

	if deletedAt.Valid {
		note.DeletedAt = &deletedAt.Time
	}

	return note, nil
}

// List returns the notes matching filter. The result is never nil.
func (r *noteRepository) List(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListNotesQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.List").Int64("user_id", filter.UserID).Msg("failed to create query")
		return nil, err
	}

	var notes []models.Note
	err = r.db.withRetry(ctx, func() error {
		notes, err = r.queryNotes(ctx, query, args)
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*noteRepository.List").Int64("user_id", filter.UserID).Msg("failed to list notes")
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) queryNotes(ctx context.Context, query string, args []any) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, 16)
	for rows.Next() {
		note, scanErr := scanNote(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		notes = append(notes, note)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return notes, nil
}

func (r *noteRepository) Create(ctx context.Context, note models.Note) (models.Note, error) {
	query, args, err := buildInsertNoteQuery(note)
	if err != nil {
		return models.Note{}, err
	}

	created, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*noteRepository.Create").Int64("user_id", note.UserID).Msg("failed to insert note")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

func (r *noteRepository) Get(ctx context.Context, userID, noteID int64) (models.Note, error) {
	query, args, err := buildGetNoteQuery(userID, noteID)
	if err != nil {
		return models.Note{}, err
	}

	var note models.Note
	err = r.db.withRetry(ctx, func() error {
		note, err = scanNote(r.db.QueryRowContext(ctx, query, args...))
		return err
	})

	return r.noteResult(ctx, "*noteRepository.Get", note, err)
}

func (r *noteRepository) Update(ctx context.Context, note models.Note) (models.Note, error) {
	query, args, err := buildUpdateNoteQuery(note)
	if err != nil {
		return models.Note{}, err
	}

	updated, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	return r.noteResult(ctx, "*noteRepository.Update", updated, err)
}

func (r *noteRepository) SetFavorite(ctx context.Context, userID, noteID int64, favorite bool) (models.Note, error) {
	query, args, err := buildSetFavoriteQuery(userID, noteID, favorite)
	if err != nil {
		return models.Note{}, err
	}

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	return r.noteResult(ctx, "*noteRepository.SetFavorite", note, err)
}

func (r *noteRepository) SoftDelete(ctx context.Context, userID, noteID int64) (models.Note, error) {
	query, args, err := buildSoftDeleteNoteQuery(userID, noteID)
	if err != nil {
		return models.Note{}, err
	}

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	return r.noteResult(ctx, "*noteRepository.SoftDelete", note, err)
}

func (r *noteRepository) Restore(ctx context.Context, userID, noteID int64) (models.Note, error) {
	query, args, err := buildRestoreNoteQuery(userID, noteID)
	if err != nil {
		return models.Note{}, err
	}

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	return r.noteResult(ctx, "*noteRepository.Restore", note, err)
}

func (r *noteRepository) Purge(ctx context.Context, userID, noteID int64) error {
	query, args, err := buildPurgeNoteQuery(userID, noteID)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*noteRepository.Purge").Int64("note_id", noteID).Msg("failed to purge note")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return expectAffected(result, ErrNoteNotFound)
}

func (r *noteRepository) noteResult(ctx context.Context, funcName string, note models.Note, err error) (models.Note, error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Note{}, ErrNoteNotFound
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("note query failed")
		return models.Note{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return note, nil
}
