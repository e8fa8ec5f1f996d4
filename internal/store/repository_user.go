package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
//
// All methods obtain a context-scoped logger via [logger.FromContext] so
// database failures are traced with the request's trace id.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser inserts user and returns the stored row without the password hash.
//
// Error handling:
//   - unique_violation on users_email_key → [ErrEmailAlreadyExists];
//   - unique_violation on users_username_key → [ErrUsernameAlreadyExists];
//   - check_violation on the username length → [ErrUsernameTooLong];
//   - anything else → wrapped [ErrExecutingQuery].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.Email, user.Username, user.PasswordHash, user.Name, user.ProfilePicture, user.Bio)

	var created models.User
	err := row.Scan(&created.ID, &created.Email, &created.Username,
		&created.Name, &created.ProfilePicture, &created.Bio, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if mapped, ok := userConstraintError(err); ok {
			log.Debug().Err(err).Str("func", "*userRepository.CreateUser").Msg("constraint violation")
			return models.User{}, mapped
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

// FindUserByEmail returns the user with the given email, including the
// password hash. A missing row yields [ErrNoUserWasFound].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

// FindUserByID returns the user with the given id, including the password hash.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

func (r *userRepository) findUser(ctx context.Context, funcName, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	err := r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, arg).Scan(
			&user.ID, &user.Email, &user.Username, &user.PasswordHash,
			&user.Name, &user.ProfilePicture, &user.Bio, &user.CreatedAt, &user.UpdatedAt)
	})

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrNoUserWasFound
	case err != nil:
		log.Err(err).Str("func", funcName).Msg("error finding user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// EmailTaken reports whether a user other than excludeUserID owns email.
func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error) {
	return r.exists(ctx, "*userRepository.EmailTaken", emailTaken, email, excludeUserID)
}

// UsernameTaken reports whether a user other than excludeUserID owns username.
func (r *userRepository) UsernameTaken(ctx context.Context, username string, excludeUserID int64) (bool, error) {
	return r.exists(ctx, "*userRepository.UsernameTaken", usernameTaken, username, excludeUserID)
}

func (r *userRepository) exists(ctx context.Context, funcName, query string, value string, excludeUserID int64) (bool, error) {
	var taken bool
	err := r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, value, excludeUserID).Scan(&taken)
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error checking uniqueness")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return taken, nil
}

// UpdateProfile overwrites email, username, name, profile picture and bio of
// user.ID and returns the stored row. Constraint violations map exactly as in
// CreateUser.
func (r *userRepository) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	var updated models.User
	err := r.db.QueryRowContext(ctx, updateProfile,
		user.Email, user.Username, user.Name, user.ProfilePicture, user.Bio, user.ID).
		Scan(&updated.ID, &updated.Email, &updated.Username,
			&updated.Name, &updated.ProfilePicture, &updated.Bio, &updated.CreatedAt, &updated.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		if mapped, ok := userConstraintError(err); ok {
			return models.User{}, mapped
		}
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Int64("user_id", user.ID).Msg("error updating profile")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return updated, nil
}

// UpdatePassword replaces the password hash of userID.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, updatePassword, passwordHash, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.UpdatePassword").Int64("user_id", userID).Msg("error updating password")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return expectAffected(result, ErrNoUserWasFound)
}

// DeleteUser removes userID. Notes and reset tokens are removed by the
// ON DELETE CASCADE foreign keys.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx, deleteUser, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.DeleteUser").Int64("user_id", userID).Msg("error deleting user")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return expectAffected(result, ErrNoUserWasFound)
}

// expectAffected returns notFound when result reports zero affected rows.
func expectAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
