package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/go-notes-keeper/internal/config"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/store"
	"github.com/MKhiriev/go-notes-keeper/internal/utils"
	"github.com/MKhiriev/go-notes-keeper/internal/validators"
	"github.com/MKhiriev/go-notes-keeper/models"
)

// resetTokenBytes is the amount of randomness in a password reset token.
// The hex-encoded token is twice as long.
const resetTokenBytes = 32

// authService is the concrete implementation of AuthService.
// It owns the password lifecycle of an account: hashing on registration,
// verification on login, both recovery flows and the session token.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// resetTokenRepository stores issued password reset tokens and redeems them.
	resetTokenRepository store.ResetTokenRepository

	// hasher computes and checks bcrypt password hashes.
	hasher PasswordHasher

	// mailer delivers the password reset link.
	mailer Mailer

	// validator checks request payloads against their validate tags.
	validator validators.Validator

	// tokenSignKey is the HMAC secret used to sign and verify session tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued session token remains valid.
	tokenDuration time.Duration

	// resetTokenDuration controls how long a password reset token remains valid.
	resetTokenDuration time.Duration

	// resetLinkBaseURL is the web page that receives the reset token.
	resetLinkBaseURL string

	// maskUnknownEmail answers forgot-password for unknown emails as if the
	// email had been sent.
	maskUnknownEmail bool

	// now returns the current time. Replaced in tests.
	now func() time.Time

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the user and reset
// token repositories and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(storages *store.Storages, hasher PasswordHasher, mailer Mailer, validator validators.Validator, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:       storages.UserRepository,
		resetTokenRepository: storages.ResetTokenRepository,
		hasher:               hasher,
		mailer:               mailer,
		validator:            validator,
		tokenSignKey:         cfg.TokenSignKey,
		tokenIssuer:          cfg.TokenIssuer,
		tokenDuration:        cfg.TokenDuration,
		resetTokenDuration:   cfg.ResetTokenDuration,
		resetLinkBaseURL:     cfg.ResetLinkBaseURL,
		maskUnknownEmail:     cfg.MaskUnknownEmail,
		now:                  time.Now,
		logger:               logger,
	}
}

// Register creates a new user account.
//
// Email, username and password are required and the username must fit in
// models.MaxUsernameLength characters. Email and username must both be free.
//
// Returns the persisted public user or:
//   - ErrRegisterFieldsRequired / ErrUsernameTooLong on invalid input;
//   - ErrEmailAlreadyRegistered / ErrUsernameAlreadyTaken on a conflict,
//     whether found by the pre-check or by the unique constraint;
//   - a wrapped storage or hashing error otherwise.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Str("email", req.Email).Msg("invalid registration data")
		return models.User{}, validationError(err, ErrRegisterFieldsRequired)
	}

	taken, err := a.userRepository.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return models.User{}, fmt.Errorf("email uniqueness check failed: %w", err)
	}
	if taken {
		return models.User{}, ErrEmailAlreadyRegistered
	}

	taken, err = a.userRepository.UsernameTaken(ctx, req.Username, 0)
	if err != nil {
		return models.User{}, fmt.Errorf("username uniqueness check failed: %w", err)
	}
	if taken {
		return models.User{}, ErrUsernameAlreadyTaken
	}

	hash, err := a.hasher.Hash(ctx, req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Email:          req.Email,
		Username:       req.Username,
		PasswordHash:   hash,
		Name:           models.OptionalString(req.Name),
		ProfilePicture: models.OptionalString(req.ProfilePicture),
		Bio:            models.OptionalString(req.Bio),
	})
	switch {
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return models.User{}, ErrEmailAlreadyRegistered
	case errors.Is(err, store.ErrUsernameAlreadyExists):
		return models.User{}, ErrUsernameAlreadyTaken
	case errors.Is(err, store.ErrUsernameTooLong):
		return models.User{}, ErrUsernameTooLong
	case err != nil:
		log.Err(err).Str("email", req.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login authenticates an existing user by email and password.
//
// An unknown email and a wrong password both yield ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, validationError(err, ErrLoginFieldsRequired)
	}

	user, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Debug().Str("email", req.Email).Msg("login for unknown email")
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	ok, err := a.hasher.Verify(ctx, req.Password, user.PasswordHash)
	if err != nil {
		log.Err(err).Int64("user_id", user.ID).Msg("password verification failed")
		return models.User{}, fmt.Errorf("password verification failed: %w", err)
	}
	if !ok {
		log.Debug().Int64("user_id", user.ID).Msg("wrong password")
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// CreateToken issues a signed session token for the given user.
//
// The token is signed with the configured tokenSignKey, carries the user's
// id, email and username, and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	identity := models.Claims{ID: user.ID, Email: user.Email, Username: user.Username}

	token, err := utils.GenerateJWTToken(identity, a.now(), a.tokenDuration, a.tokenIssuer, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw session token.
//
// Any validation failure (expired, wrong signature, wrong issuer, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer, a.now)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// ForgotPassword issues a one-hour reset token for the account registered
// with req.Email and mails the reset link to that address.
//
// Returns ErrUserNotFound for an unknown email unless maskUnknownEmail is
// set, in which case nothing is sent and nil is returned. A delivery failure
// is reported as ErrSendingEmail; the issued token stays valid.
func (a *authService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return validationError(err, ErrEmailRequired)
	}

	user, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		if a.maskUnknownEmail {
			log.Info().Msg("password reset requested for unknown email")
			return nil
		}
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("user search by email failed: %w", err)
	}

	value, err := utils.GenerateRandomHex(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("reset token generation failed: %w", err)
	}

	issued, err := a.resetTokenRepository.CreateToken(ctx, models.PasswordResetToken{
		Token:     value,
		UserID:    user.ID,
		ExpiresAt: a.now().Add(a.resetTokenDuration),
	})
	if err != nil {
		return fmt.Errorf("reset token creation failed: %w", err)
	}

	link, err := a.resetLink(issued.Token)
	if err != nil {
		return err
	}

	if err = a.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		log.Err(err).Int64("user_id", user.ID).Msg("password reset email was not sent")
		return fmt.Errorf("%w: %w", ErrSendingEmail, err)
	}

	log.Info().Int64("user_id", user.ID).Time("expires_at", issued.ExpiresAt).Msg("password reset link sent")
	return nil
}

// ResetPassword sets a new password for the owner of req.Token and consumes
// the token. Absent, expired and already used tokens all yield
// ErrInvalidResetToken.
func (a *authService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return validationError(err, ErrResetFieldsRequired)
	}

	// cheap lookup first so that junk tokens never reach bcrypt
	if _, err := a.resetTokenRepository.FindValidToken(ctx, req.Token); err != nil {
		if errors.Is(err, store.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("reset token lookup failed: %w", err)
	}

	hash, err := a.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}

	userID, err := a.resetTokenRepository.RedeemToken(ctx, req.Token, hash)
	if errors.Is(err, store.ErrResetTokenNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("reset token redemption failed: %w", err)
	}

	log.Info().Int64("user_id", userID).Msg("password reset")
	return nil
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one.
func (a *authService) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return validationError(err, ErrChangePasswordFieldsRequired)
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("user search by id failed: %w", err)
	}

	ok, err := a.hasher.Verify(ctx, req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("password verification failed: %w", err)
	}
	if !ok {
		return ErrWrongCurrentPassword
	}

	hash, err := a.hasher.Hash(ctx, req.NewPassword)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}

	err = a.userRepository.UpdatePassword(ctx, userID, hash)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("password update failed: %w", err)
	}

	log.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

// resetLink appends the token to resetLinkBaseURL as the "token" query parameter.
func (a *authService) resetLink(token string) (string, error) {
	u, err := url.Parse(a.resetLinkBaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid reset link base url: %w", err)
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// validationError turns a validator failure into the service error the
// caller reports. Missing fields win over a too long username.
func validationError(err error, required error) error {
	switch {
	case validators.HasViolation(err, "required"):
		return required
	case validators.HasViolation(err, "max", "username"):
		return ErrUsernameTooLong
	default:
		return fmt.Errorf("%w: %w", required, err)
	}
}
