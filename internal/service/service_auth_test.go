package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-notes-keeper/internal/config"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/mock"
	"github.com/MKhiriev/go-notes-keeper/internal/store"
	"github.com/MKhiriev/go-notes-keeper/internal/validators"
	"github.com/MKhiriev/go-notes-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type authMocks struct {
	users   *mock.MockUserRepository
	tokens  *mock.MockResetTokenRepository
	hasher  *mock.MockPasswordHasher
	mailer  *mock.MockMailer
	service *authService
}

func newTestAuthSvc(t *testing.T, mutate ...func(*config.App)) authMocks {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := authMocks{
		users:  mock.NewMockUserRepository(ctrl),
		tokens: mock.NewMockResetTokenRepository(ctrl),
		hasher: mock.NewMockPasswordHasher(ctrl),
		mailer: mock.NewMockMailer(ctrl),
	}

	cfg := config.App{
		TokenSignKey:       "test-secret",
		TokenIssuer:        "notes-test",
		TokenDuration:      time.Hour,
		ResetTokenDuration: time.Hour,
		ResetLinkBaseURL:   "http://localhost:3000/reset-password",
	}
	for _, f := range mutate {
		f(&cfg)
	}

	storages := &store.Storages{UserRepository: m.users, ResetTokenRepository: m.tokens}
	m.service = NewAuthService(storages, m.hasher, m.mailer, validators.NewRequestValidator(), cfg, logger.Nop()).(*authService)
	m.service.now = func() time.Time { return fixedNow }

	return m
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	m := newTestAuthSvc(t)
	ctx := context.Background()
	req := models.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "s3cret", Bio: "hi"}

	gomock.InOrder(
		m.users.EXPECT().EmailTaken(ctx, "alice@example.com", int64(0)).Return(false, nil),
		m.users.EXPECT().UsernameTaken(ctx, "alice", int64(0)).Return(false, nil),
		m.hasher.EXPECT().Hash(ctx, "s3cret").Return("$2a$10$hash", nil),
		m.users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u models.User) (models.User, error) {
				assert.Equal(t, "$2a$10$hash", u.PasswordHash)
				assert.Nil(t, u.Name)
				assert.Nil(t, u.ProfilePicture)
				require.NotNil(t, u.Bio)
				assert.Equal(t, "hi", *u.Bio)
				u.ID = 7
				u.PasswordHash = ""
				return u, nil
			},
		),
	)

	user, err := m.service.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.RegisterRequest
		want error
	}{
		{name: "missing email", req: models.RegisterRequest{Username: "bob", Password: "pw"}, want: ErrRegisterFieldsRequired},
		{name: "missing username", req: models.RegisterRequest{Email: "b@x.io", Password: "pw"}, want: ErrRegisterFieldsRequired},
		{name: "missing password", req: models.RegisterRequest{Email: "b@x.io", Username: "bob"}, want: ErrRegisterFieldsRequired},
		{name: "username of 11 characters", req: models.RegisterRequest{Email: "b@x.io", Username: "bobbobbobbo", Password: "pw"}, want: ErrUsernameTooLong},
		{name: "missing fields reported before length", req: models.RegisterRequest{Username: "bobbobbobbo"}, want: ErrRegisterFieldsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestAuthSvc(t)
			_, err := m.service.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	ctx := context.Background()
	req := models.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "pw"}

	t.Run("email taken", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().EmailTaken(ctx, req.Email, int64(0)).Return(true, nil)

		_, err := m.service.Register(ctx, req)
		assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	})

	t.Run("username taken", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().EmailTaken(ctx, req.Email, int64(0)).Return(false, nil)
		m.users.EXPECT().UsernameTaken(ctx, req.Username, int64(0)).Return(true, nil)

		_, err := m.service.Register(ctx, req)
		assert.ErrorIs(t, err, ErrUsernameAlreadyTaken)
	})

	t.Run("concurrent registration loses on the constraint", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().EmailTaken(ctx, req.Email, int64(0)).Return(false, nil)
		m.users.EXPECT().UsernameTaken(ctx, req.Username, int64(0)).Return(false, nil)
		m.hasher.EXPECT().Hash(ctx, "pw").Return("hash", nil)
		m.users.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)

		_, err := m.service.Register(ctx, req)
		assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	})

	t.Run("storage failure is not a conflict", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().EmailTaken(ctx, req.Email, int64(0)).Return(false, errors.New("connection reset"))

		_, err := m.service.Register(ctx, req)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmailAlreadyRegistered)
	})
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	stored := models.User{ID: 3, Email: "alice@example.com", Username: "alice", PasswordHash: "hash"}

	t.Run("success", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByEmail(ctx, stored.Email).Return(stored, nil)
		m.hasher.EXPECT().Verify(ctx, "pw", "hash").Return(true, nil)

		user, err := m.service.Login(ctx, models.LoginRequest{Email: stored.Email, Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByEmail(ctx, "ghost@example.com").Return(models.User{}, store.ErrNoUserWasFound)

		_, err := m.service.Login(ctx, models.LoginRequest{Email: "ghost@example.com", Password: "pw"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByEmail(ctx, stored.Email).Return(stored, nil)
		m.hasher.EXPECT().Verify(ctx, "nope", "hash").Return(false, nil)

		_, err := m.service.Login(ctx, models.LoginRequest{Email: stored.Email, Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("malformed stored hash", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByEmail(ctx, stored.Email).Return(stored, nil)
		m.hasher.EXPECT().Verify(ctx, "pw", "hash").Return(false, ErrMalformedHash)

		_, err := m.service.Login(ctx, models.LoginRequest{Email: stored.Email, Password: "pw"})
		assert.ErrorIs(t, err, ErrMalformedHash)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing password", func(t *testing.T) {
		m := newTestAuthSvc(t)

		_, err := m.service.Login(ctx, models.LoginRequest{Email: stored.Email})
		assert.ErrorIs(t, err, ErrLoginFieldsRequired)
	})
}

// ── Session tokens ───────────────────────────────────────────────────────────

func TestAuthService_CreateAndParseToken(t *testing.T) {
	m := newTestAuthSvc(t)
	ctx := context.Background()

	token, err := m.service.CreateToken(ctx, models.User{ID: 5, Email: "e@x.io", Username: "eve"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(time.Hour), token.ExpiresAt())

	parsed, err := m.service.ParseToken(ctx, token.String())
	require.NoError(t, err)
	assert.Equal(t, int64(5), parsed.Claims.ID)
	assert.Equal(t, "eve", parsed.Claims.Username)

	m.service.now = func() time.Time { return fixedNow.Add(61 * time.Minute) }
	_, err = m.service.ParseToken(ctx, token.String())
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_ParseToken_WrongSecret(t *testing.T) {
	issuer := newTestAuthSvc(t, func(cfg *config.App) { cfg.TokenSignKey = "other-secret" })
	verifier := newTestAuthSvc(t)

	token, err := issuer.service.CreateToken(context.Background(), models.User{ID: 1})
	require.NoError(t, err)

	_, err = verifier.service.ParseToken(context.Background(), token.String())
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_CreateToken_NoSignKey(t *testing.T) {
	m := newTestAuthSvc(t, func(cfg *config.App) { cfg.TokenSignKey = "" })

	_, err := m.service.CreateToken(context.Background(), models.User{ID: 1})
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

// ── Forgot password ──────────────────────────────────────────────────────────

func TestAuthService_ForgotPassword_Success(t *testing.T) {
	m := newTestAuthSvc(t)
	ctx := context.Background()
	user := models.User{ID: 9, Email: "alice@example.com"}

	var issued string
	gomock.InOrder(
		m.users.EXPECT().FindUserByEmail(ctx, user.Email).Return(user, nil),
		m.tokens.EXPECT().CreateToken(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, tok models.PasswordResetToken) (models.PasswordResetToken, error) {
				assert.Len(t, tok.Token, 64)
				assert.Equal(t, int64(9), tok.UserID)
				assert.Equal(t, fixedNow.Add(time.Hour), tok.ExpiresAt)
				issued = tok.Token
				return tok, nil
			},
		),
		m.mailer.EXPECT().SendPasswordReset(ctx, user.Email, gomock.Any()).DoAndReturn(
			func(_ context.Context, _, link string) error {
				assert.Equal(t, "http://localhost:3000/reset-password?token="+issued, link)
				return nil
			},
		),
	)

	require.NoError(t, m.service.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: user.Email}))
}

func TestAuthService_ForgotPassword_TokensAreUnique(t *testing.T) {
	m := newTestAuthSvc(t)
	ctx := context.Background()

	seen := map[string]bool{}
	m.users.EXPECT().FindUserByEmail(ctx, "a@x.io").Return(models.User{ID: 1, Email: "a@x.io"}, nil).Times(2)
	m.tokens.EXPECT().CreateToken(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, tok models.PasswordResetToken) (models.PasswordResetToken, error) {
			assert.False(t, seen[tok.Token])
			seen[tok.Token] = true
			return tok, nil
		},
	).Times(2)
	m.mailer.EXPECT().SendPasswordReset(ctx, "a@x.io", gomock.Any()).Return(nil).Times(2)

	require.NoError(t, m.service.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.io"}))
	require.NoError(t, m.service.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.io"}))
	assert.Len(t, seen, 2)
}

func TestAuthService_ForgotPassword_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing email", func(t *testing.T) {
		m := newTestAuthSvc(t)
		err := m.service.ForgotPassword(ctx, models.ForgotPasswordRequest{})
		assert.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("unknown email", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByEmail(ctx, "ghost@x.io").Return(models.User{}, store.ErrNoUserWasFound)

		err := m.service.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "ghost@x.io"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unknown email masked", func(t *testing.T) {
		m := newTestAuthSvc(t, func(cfg *config.App) { cfg.MaskUnknownEmail = true })
		m.users.EXPECT().FindUserByEmail(ctx, "ghost@x.io").Return(models.User{}, store.ErrNoUserWasFound)

		assert.NoError(t, m.service.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "ghost@x.io"}))
	})

	t.Run("mail delivery fails", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByEmail(ctx, "a@x.io").Return(models.User{ID: 1, Email: "a@x.io"}, nil)
		m.tokens.EXPECT().CreateToken(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, tok models.PasswordResetToken) (models.PasswordResetToken, error) {
				return tok, nil
			},
		)
		m.mailer.EXPECT().SendPasswordReset(ctx, "a@x.io", gomock.Any()).Return(errors.New("smtp: 535"))

		err := m.service.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.io"})
		assert.ErrorIs(t, err, ErrSendingEmail)
	})

	t.Run("token storage fails", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByEmail(ctx, "a@x.io").Return(models.User{ID: 1, Email: "a@x.io"}, nil)
		m.tokens.EXPECT().CreateToken(ctx, gomock.Any()).Return(models.PasswordResetToken{}, errors.New("db down"))

		err := m.service.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "a@x.io"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSendingEmail)
	})
}

// ── Reset password ───────────────────────────────────────────────────────────

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	token := strings.Repeat("ab", 32)
	req := models.ResetPasswordRequest{Token: token, NewPassword: "n3w"}

	t.Run("success", func(t *testing.T) {
		m := newTestAuthSvc(t)
		gomock.InOrder(
			m.tokens.EXPECT().FindValidToken(ctx, token).Return(models.PasswordResetToken{Token: token, UserID: 4}, nil),
			m.hasher.EXPECT().Hash(ctx, "n3w").Return("new-hash", nil),
			m.tokens.EXPECT().RedeemToken(ctx, token, "new-hash").Return(int64(4), nil),
		)

		assert.NoError(t, m.service.ResetPassword(ctx, req))
	})

	t.Run("unknown or expired token skips hashing", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.tokens.EXPECT().FindValidToken(ctx, token).Return(models.PasswordResetToken{}, store.ErrResetTokenNotFound)

		assert.ErrorIs(t, m.service.ResetPassword(ctx, req), ErrInvalidResetToken)
	})

	t.Run("token redeemed concurrently", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.tokens.EXPECT().FindValidToken(ctx, token).Return(models.PasswordResetToken{Token: token, UserID: 4}, nil)
		m.hasher.EXPECT().Hash(ctx, "n3w").Return("new-hash", nil)
		m.tokens.EXPECT().RedeemToken(ctx, token, "new-hash").Return(int64(0), store.ErrResetTokenNotFound)

		assert.ErrorIs(t, m.service.ResetPassword(ctx, req), ErrInvalidResetToken)
	})

	t.Run("missing new password", func(t *testing.T) {
		m := newTestAuthSvc(t)
		err := m.service.ResetPassword(ctx, models.ResetPasswordRequest{Token: token})
		assert.ErrorIs(t, err, ErrResetFieldsRequired)
	})
}

// ── Change password ──────────────────────────────────────────────────────────

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	stored := models.User{ID: 2, PasswordHash: "old-hash"}
	req := models.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "new"}

	t.Run("success", func(t *testing.T) {
		m := newTestAuthSvc(t)
		gomock.InOrder(
			m.users.EXPECT().FindUserByID(ctx, int64(2)).Return(stored, nil),
			m.hasher.EXPECT().Verify(ctx, "old", "old-hash").Return(true, nil),
			m.hasher.EXPECT().Hash(ctx, "new").Return("new-hash", nil),
			m.users.EXPECT().UpdatePassword(ctx, int64(2), "new-hash").Return(nil),
		)

		assert.NoError(t, m.service.ChangePassword(ctx, 2, req))
	})

	t.Run("wrong current password", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByID(ctx, int64(2)).Return(stored, nil)
		m.hasher.EXPECT().Verify(ctx, "old", "old-hash").Return(false, nil)

		assert.ErrorIs(t, m.service.ChangePassword(ctx, 2, req), ErrWrongCurrentPassword)
	})

	t.Run("user deleted meanwhile", func(t *testing.T) {
		m := newTestAuthSvc(t)
		m.users.EXPECT().FindUserByID(ctx, int64(2)).Return(models.User{}, store.ErrNoUserWasFound)

		assert.ErrorIs(t, m.service.ChangePassword(ctx, 2, req), ErrUserNotFound)
	})

	t.Run("missing current password", func(t *testing.T) {
		m := newTestAuthSvc(t)
		err := m.service.ChangePassword(ctx, 2, models.ChangePasswordRequest{NewPassword: "new"})
		assert.ErrorIs(t, err, ErrChangePasswordFieldsRequired)
	})
}
