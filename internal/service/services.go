package service

import (
	"github.com/MKhiriev/go-notes-keeper/internal/config"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/store"
	"github.com/MKhiriev/go-notes-keeper/internal/validators"
)

type Services struct {
	AuthService    AuthService
	ProfileService ProfileService
	NoteService    NoteService
}

func NewServices(storages *store.Storages, mailer Mailer, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	hasher := NewBcryptHasher(cfg.App.BcryptCost, cfg.App.HashConcurrency)
	requestValidator := validators.NewRequestValidator()

	return &Services{
		AuthService:    NewAuthService(storages, hasher, mailer, requestValidator, cfg.App, logger),
		ProfileService: NewProfileService(storages.UserRepository, requestValidator, logger),
		NoteService: NewNoteValidationService(requestValidator).
			Wrap(NewNoteService(storages.NoteRepository, logger)),
	}
}
