package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/models"
)

type resetTokenRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewResetTokenRepository constructs a [ResetTokenRepository] backed by db.
func NewResetTokenRepository(db *DB, logger *logger.Logger) ResetTokenRepository {
	logger.Debug().Msg("creating reset token repository")
	return &resetTokenRepository{
		db:     db,
		logger: logger,
	}
}

func (r *resetTokenRepository) CreateToken(ctx context.Context, token models.PasswordResetToken) (models.PasswordResetToken, error) {
	err := r.db.QueryRowContext(ctx, createResetToken, token.UserID, token.Token, token.ExpiresAt).
		Scan(&token.CreatedAt)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*resetTokenRepository.CreateToken").
			Int64("user_id", token.UserID).
			Msg("error saving reset token")
		return models.PasswordResetToken{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return token, nil
}

func (r *resetTokenRepository) FindValidToken(ctx context.Context, token string) (models.PasswordResetToken, error) {
	var found models.PasswordResetToken
	err := r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, findValidResetToken, token).
			Scan(&found.Token, &found.UserID, &found.ExpiresAt, &found.CreatedAt)
	})

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.PasswordResetToken{}, ErrResetTokenNotFound
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", "*resetTokenRepository.FindValidToken").Msg("error finding reset token")
		return models.PasswordResetToken{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

// RedeemToken deletes token and stores passwordHash for its owner in a single
// transaction, so a token is redeemed at most once even under concurrent
// requests: the second DELETE finds no row.
func (r *resetTokenRepository) RedeemToken(ctx context.Context, token, passwordHash string) (userID int64, err error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.RedeemToken").Msg("error beginning transaction")
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, consumeResetToken, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrResetTokenNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.RedeemToken").Msg("error consuming reset token")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	result, err := tx.ExecContext(ctx, updatePassword, passwordHash, userID)
	if err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.RedeemToken").Int64("user_id", userID).Msg("error updating password")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if err = expectAffected(result, ErrNoUserWasFound); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.RedeemToken").Msg("error committing transaction")
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return userID, nil
}

func (r *resetTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, deleteExpiredResetTokens)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*resetTokenRepository.DeleteExpired").Msg("error deleting expired reset tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return deleted, nil
}
