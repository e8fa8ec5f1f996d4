package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Note is a text note owned by exactly one user. A non-nil DeletedAt marks
// the note as soft-deleted ("recently deleted").
type Note struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Tags       Tags       `json:"tags"`
	IsFavorite bool       `json:"is_favorite"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

// TableName returns the name of the database table
// associated with the Note model.
func (n Note) TableName() string {
	return "notes"
}

// NoteFilter narrows a note listing. UserID is always required.
type NoteFilter struct {
	UserID int64

	// Deleted selects soft-deleted notes instead of active ones.
	Deleted bool

	// Tag, when set, keeps only notes carrying this (normalized) tag.
	Tag string

	// FavoritesOnly keeps only notes marked as favorite.
	FavoritesOnly bool
}

// Tags is an ordered set of upper-cased labels. It is stored as a JSONB array.
type Tags []string

// NormalizeTags trims and upper-cases every tag, drops empty ones and
// duplicates, and keeps the first-seen order. The result is never nil.
func NormalizeTags(tags []string) Tags {
	normalized := make(Tags, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		tag = strings.ToUpper(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return normalized
}

// Value implements [driver.Valuer].
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("error marshaling tags: %w", err)
	}
	return string(b), nil
}

// Scan implements [sql.Scanner].
func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tags column type %T", src)
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("error unmarshaling tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	*t = tags
	return nil
}
