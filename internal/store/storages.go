package store

import (
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
)

// Storages aggregates every repository used by the service layer.
type Storages struct {
	UserRepository       UserRepository
	ResetTokenRepository ResetTokenRepository
	NoteRepository       NoteRepository
}

// NewStorages builds all PostgreSQL repositories on top of db.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		ResetTokenRepository: NewResetTokenRepository(db, log),
		NoteRepository:       NewNoteRepository(db, log),
	}
}
