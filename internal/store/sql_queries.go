package store

import (
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-notes-keeper/models"
)

const (
	usersEmailKey    = "users_email_key"
	usersUsernameKey = "users_username_key"
)

// users

const (
	createUser = `INSERT INTO users (email, username, password, name, profile_picture, bio)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, email, username, name, profile_picture, bio, created_at, updated_at;`

	findUserByEmail = `SELECT id, email, username, password, name, profile_picture, bio, created_at, updated_at
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT id, email, username, password, name, profile_picture, bio, created_at, updated_at
    FROM users
    WHERE id = $1;`

	emailTaken = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2);`

	usernameTaken = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2);`

	updateProfile = `UPDATE users
    SET email = $1, username = $2, name = $3, profile_picture = $4, bio = $5, updated_at = NOW()
    WHERE id = $6
    RETURNING id, email, username, name, profile_picture, bio, created_at, updated_at;`

	updatePassword = `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2;`

	deleteUser = `DELETE FROM users WHERE id = $1;`
)

// password reset tokens

const (
	createResetToken = `INSERT INTO password_reset_tokens (user_id, token, expires_at)
    VALUES ($1, $2, $3)
    RETURNING created_at;`

	findValidResetToken = `SELECT token, user_id, expires_at, created_at
    FROM password_reset_tokens
    WHERE token = $1 AND expires_at > NOW();`

	consumeResetToken = `DELETE FROM password_reset_tokens
    WHERE token = $1 AND expires_at > NOW()
    RETURNING user_id;`

	deleteExpiredResetTokens = `DELETE FROM password_reset_tokens WHERE expires_at <= NOW();`
)

// notes

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var noteColumns = []string{
	"id", "user_id", "title", "content", "tags", "is_favorite", "created_at", "updated_at", "deleted_at",
}

var (
	activeNote  = sq.Eq{"deleted_at": nil}
	deletedNote = sq.NotEq{"deleted_at": nil}
)

func returningNoteColumns() string {
	return "RETURNING " + strings.Join(noteColumns, ", ")
}

func ownedNote(userID, noteID int64) sq.And {
	return sq.And{sq.Eq{"id": noteID}, sq.Eq{"user_id": userID}}
}

// buildListNotesQuery selects a user's active or deleted notes. Active notes
// are ordered by most recent update, deleted ones by most recent deletion.
func buildListNotesQuery(filter models.NoteFilter) (string, []any, error) {
	query := psql.Select(noteColumns...).
		From(models.Note{}.TableName()).
		Where(sq.Eq{"user_id": filter.UserID})

	if filter.Deleted {
		query = query.Where(deletedNote).OrderBy("deleted_at DESC", "id DESC")
	} else {
		query = query.Where(activeNote).OrderBy("updated_at DESC", "id DESC")
	}

	if filter.FavoritesOnly {
		query = query.Where(sq.Eq{"is_favorite": true})
	}

	if filter.Tag != "" {
		tag, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		query = query.Where(sq.Expr("tags @> ?::jsonb", string(tag)))
	}

	return toSQL(query)
}

func buildInsertNoteQuery(note models.Note) (string, []any, error) {
	return toSQL(psql.Insert(models.Note{}.TableName()).
		Columns("user_id", "title", "content", "tags", "is_favorite").
		Values(note.UserID, note.Title, note.Content, note.Tags, note.IsFavorite).
		Suffix(returningNoteColumns()))
}

func buildGetNoteQuery(userID, noteID int64) (string, []any, error) {
	return toSQL(psql.Select(noteColumns...).
		From(models.Note{}.TableName()).
		Where(ownedNote(userID, noteID)).
		Where(activeNote))
}

func buildUpdateNoteQuery(note models.Note) (string, []any, error) {
	return toSQL(psql.Update(models.Note{}.TableName()).
		Set("title", note.Title).
		Set("content", note.Content).
		Set("tags", note.Tags).
		Set("updated_at", sq.Expr("NOW()")).
		Where(ownedNote(note.UserID, note.ID)).
		Where(activeNote).
		Suffix(returningNoteColumns()))
}

func buildSetFavoriteQuery(userID, noteID int64, favorite bool) (string, []any, error) {
	return toSQL(psql.Update(models.Note{}.TableName()).
		Set("is_favorite", favorite).
		Where(ownedNote(userID, noteID)).
		Where(activeNote).
		Suffix(returningNoteColumns()))
}

func buildSoftDeleteNoteQuery(userID, noteID int64) (string, []any, error) {
	return toSQL(psql.Update(models.Note{}.TableName()).
		Set("deleted_at", sq.Expr("NOW()")).
		Where(ownedNote(userID, noteID)).
		Where(activeNote).
		Suffix(returningNoteColumns()))
}

func buildRestoreNoteQuery(userID, noteID int64) (string, []any, error) {
	return toSQL(psql.Update(models.Note{}.TableName()).
		Set("deleted_at", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(ownedNote(userID, noteID)).
		Where(deletedNote).
		Suffix(returningNoteColumns()))
}

func buildPurgeNoteQuery(userID, noteID int64) (string, []any, error) {
	return toSQL(psql.Delete(models.Note{}.TableName()).
		Where(ownedNote(userID, noteID)).
		Where(deletedNote))
}

func toSQL(b sq.Sqlizer) (string, []any, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
