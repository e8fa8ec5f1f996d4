package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/store"
	"github.com/MKhiriev/go-notes-keeper/internal/validators"
	"github.com/MKhiriev/go-notes-keeper/models"
)

type profileService struct {
	userRepository store.UserRepository
	validator      validators.Validator
	logger         *logger.Logger
}

// NewProfileService returns a ProfileService backed by userRepository.
func NewProfileService(userRepository store.UserRepository, validator validators.Validator, logger *logger.Logger) ProfileService {
	return &profileService{
		userRepository: userRepository,
		validator:      validator,
		logger:         logger,
	}
}

func (p *profileService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	user, err := p.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile overwrites email, username and the optional profile fields.
// Email and username must not belong to another account; keeping one's own
// values is allowed.
func (p *profileService) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := p.validator.Validate(ctx, req); err != nil {
		return models.User{}, validationError(err, ErrProfileFieldsRequired)
	}

	taken, err := p.userRepository.EmailTaken(ctx, req.Email, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("email uniqueness check failed: %w", err)
	}
	if taken {
		return models.User{}, ErrEmailInUse
	}

	taken, err = p.userRepository.UsernameTaken(ctx, req.Username, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("username uniqueness check failed: %w", err)
	}
	if taken {
		return models.User{}, ErrUsernameInUse
	}

	user, err := p.userRepository.UpdateProfile(ctx, models.User{
		ID:             userID,
		Email:          req.Email,
		Username:       req.Username,
		Name:           models.OptionalString(req.Name),
		ProfilePicture: models.OptionalString(req.ProfilePicture),
		Bio:            models.OptionalString(req.Bio),
	})
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return models.User{}, ErrUserNotFound
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return models.User{}, ErrEmailInUse
	case errors.Is(err, store.ErrUsernameAlreadyExists):
		return models.User{}, ErrUsernameInUse
	case errors.Is(err, store.ErrUsernameTooLong):
		return models.User{}, ErrUsernameTooLong
	case err != nil:
		log.Err(err).Int64("user_id", userID).Msg("profile update ended with error")
		return models.User{}, fmt.Errorf("profile update ended with error: %w", err)
	}

	log.Info().Int64("user_id", userID).Msg("profile updated")
	return user, nil
}

// DeleteAccount removes the user together with their notes and reset tokens.
func (p *profileService) DeleteAccount(ctx context.Context, userID int64) error {
	err := p.userRepository.DeleteUser(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("account deletion failed: %w", err)
	}

	logger.FromContext(ctx).Info().Int64("user_id", userID).Msg("account deleted")
	return nil
}
