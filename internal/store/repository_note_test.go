package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNoteRepo(t *testing.T) (NoteRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return NewNoteRepository(db, logger.Nop()), mock
}

func noteRows() *sqlmock.Rows {
	return sqlmock.NewRows(noteColumns)
}

// ── List ──────────────────────────────────────────────────────────────────────

func TestListNotes_Active(t *testing.T) {
	repo, mock := newTestNoteRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM notes WHERE user_id = \$1 AND deleted_at IS NULL ORDER BY updated_at DESC`).
		WithArgs(int64(7)).
		WillReturnRows(noteRows().
			AddRow(2, 7, "second", "b", `["WORK"]`, true, now, now, nil).
			AddRow(1, 7, "first", "a", `[]`, false, now, now.Add(-time.Minute), nil))

	notes, err := repo.List(context.Background(), models.NoteFilter{UserID: 7})
	require.NoError(t, err)
	require.Len(t, notes, 2)

	assert.Equal(t, int64(2), notes[0].ID)
	assert.Equal(t, models.Tags{"WORK"}, notes[0].Tags)
	assert.True(t, notes[0].IsFavorite)
	assert.Nil(t, notes[0].DeletedAt)
	assert.Equal(t, models.Tags{}, notes[1].Tags)
}

func TestListNotes_EmptyIsNotNil(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectQuery(`FROM notes`).WithArgs(int64(7)).WillReturnRows(noteRows())

	notes, err := repo.List(context.Background(), models.NoteFilter{UserID: 7})
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestListNotes_DeletedWithFilters(t *testing.T) {
	repo, mock := newTestNoteRepo(t)
	now := time.Now()

	mock.ExpectQuery(`deleted_at IS NOT NULL AND is_favorite = \$2 AND tags @> \$3::jsonb ORDER BY deleted_at DESC`).
		WithArgs(int64(7), true, `["WORK"]`).
		WillReturnRows(noteRows().AddRow(3, 7, "gone", "c", `["WORK"]`, true, now, now, now))

	notes, err := repo.List(context.Background(), models.NoteFilter{
		UserID:        7,
		Deleted:       true,
		FavoritesOnly: true,
		Tag:           "WORK",
	})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.NotNil(t, notes[0].DeletedAt)
}

func TestListNotes_ScanError(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectQuery(`FROM notes`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := repo.List(context.Background(), models.NoteFilter{UserID: 7})
	assert.ErrorIs(t, err, ErrScanningRow)
}

func TestListNotes_RetriesTransientErrors(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectQuery(`FROM notes`).WillReturnError(pgError(pgerrcode.DeadlockDetected))
	mock.ExpectQuery(`FROM notes`).WillReturnRows(noteRows())

	notes, err := repo.List(context.Background(), models.NoteFilter{UserID: 7})
	require.NoError(t, err)
	assert.Empty(t, notes)
}

// ── Create / Get / Update ─────────────────────────────────────────────────────

func TestCreateNote(t *testing.T) {
	repo, mock := newTestNoteRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO notes`).
		WithArgs(int64(7), "title", "content", `["A","B"]`, false).
		WillReturnRows(noteRows().AddRow(10, 7, "title", "content", `["A","B"]`, false, now, now, nil))

	note, err := repo.Create(context.Background(), models.Note{
		UserID:  7,
		Title:   "title",
		Content: "content",
		Tags:    models.Tags{"A", "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), note.ID)
	assert.Equal(t, models.Tags{"A", "B"}, note.Tags)
}

func TestCreateNote_Error(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectQuery(`INSERT INTO notes`).WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), models.Note{UserID: 7})
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestGetNote_NotFound(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectQuery(`FROM notes WHERE \(id = \$1 AND user_id = \$2\) AND deleted_at IS NULL`).
		WithArgs(int64(10), int64(8)).
		WillReturnRows(noteRows())

	_, err := repo.Get(context.Background(), 8, 10)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestUpdateNote(t *testing.T) {
	repo, mock := newTestNoteRepo(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE notes SET title = \$1, content = \$2, tags = \$3, updated_at = NOW\(\)`).
		WithArgs("t", "c", `["X"]`, int64(10), int64(7)).
		WillReturnRows(noteRows().AddRow(10, 7, "t", "c", `["X"]`, false, now, now, nil))

	note, err := repo.Update(context.Background(), models.Note{ID: 10, UserID: 7, Title: "t", Content: "c", Tags: models.Tags{"X"}})
	require.NoError(t, err)
	assert.Equal(t, "t", note.Title)
}

func TestUpdateNote_ForeignOrDeleted(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectQuery(`UPDATE notes`).WillReturnRows(noteRows())

	_, err := repo.Update(context.Background(), models.Note{ID: 10, UserID: 8})
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

// ── favorite / soft delete / restore / purge ──────────────────────────────────

func TestSetFavorite(t *testing.T) {
	repo, mock := newTestNoteRepo(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE notes SET is_favorite = \$1`).
		WithArgs(true, int64(10), int64(7)).
		WillReturnRows(noteRows().AddRow(10, 7, "t", "c", `[]`, true, now, now, nil))

	note, err := repo.SetFavorite(context.Background(), 7, 10, true)
	require.NoError(t, err)
	assert.True(t, note.IsFavorite)
}

func TestSoftDelete(t *testing.T) {
	repo, mock := newTestNoteRepo(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE notes SET deleted_at = NOW\(\) WHERE \(id = \$1 AND user_id = \$2\) AND deleted_at IS NULL`).
		WithArgs(int64(10), int64(7)).
		WillReturnRows(noteRows().AddRow(10, 7, "t", "c", `[]`, false, now, now, now))

	note, err := repo.SoftDelete(context.Background(), 7, 10)
	require.NoError(t, err)
	require.NotNil(t, note.DeletedAt)
}

func TestSoftDelete_AlreadyDeleted(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectQuery(`UPDATE notes SET deleted_at = NOW\(\)`).WillReturnRows(noteRows())

	_, err := repo.SoftDelete(context.Background(), 7, 10)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestRestore(t *testing.T) {
	repo, mock := newTestNoteRepo(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE notes SET deleted_at = \$1, updated_at = NOW\(\) WHERE \(id = \$2 AND user_id = \$3\) AND deleted_at IS NOT NULL`).
		WithArgs(nil, int64(10), int64(7)).
		WillReturnRows(noteRows().AddRow(10, 7, "t", "c", `[]`, false, now, now, nil))

	note, err := repo.Restore(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Nil(t, note.DeletedAt)
}

func TestPurge(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectExec(`DELETE FROM notes WHERE \(id = \$1 AND user_id = \$2\) AND deleted_at IS NOT NULL`).
		WithArgs(int64(10), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Purge(context.Background(), 7, 10))
}

func TestPurge_ActiveNoteIsNotPurged(t *testing.T) {
	repo, mock := newTestNoteRepo(t)

	mock.ExpectExec(`DELETE FROM notes`).
		WithArgs(int64(10), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Purge(context.Background(), 7, 10), ErrNoteNotFound)
}
