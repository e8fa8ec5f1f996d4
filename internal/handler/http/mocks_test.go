package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/ratelimit"
	"github.com/MKhiriev/go-notes-keeper/internal/service"
	"github.com/MKhiriev/go-notes-keeper/internal/utils"
	"github.com/MKhiriev/go-notes-keeper/models"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Service mocks. Each method field can be overridden per test case;
// calling a method whose field is nil panics, which fails the test.
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerFn       func(ctx context.Context, req models.RegisterRequest) (models.User, error)
	loginFn          func(ctx context.Context, req models.LoginRequest) (models.User, error)
	createTokenFn    func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn     func(ctx context.Context, tokenString string) (models.Token, error)
	forgotPasswordFn func(ctx context.Context, req models.ForgotPasswordRequest) error
	resetPasswordFn  func(ctx context.Context, req models.ResetPasswordRequest) error
	changePasswordFn func(ctx context.Context, userID int64, req models.ChangePasswordRequest) error
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return m.registerFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	return m.forgotPasswordFn(ctx, req)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	return m.resetPasswordFn(ctx, req)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	return m.changePasswordFn(ctx, userID, req)
}

type mockProfileService struct {
	getProfileFn    func(ctx context.Context, userID int64) (models.User, error)
	updateProfileFn func(ctx context.Context, userID int64, req models.UpdateProfileRequest) (models.User, error)
	deleteAccountFn func(ctx context.Context, userID int64) error
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	return m.getProfileFn(ctx, userID)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (models.User, error) {
	return m.updateProfileFn(ctx, userID, req)
}

func (m *mockProfileService) DeleteAccount(ctx context.Context, userID int64) error {
	return m.deleteAccountFn(ctx, userID)
}

type mockNoteService struct {
	listNotesFn   func(ctx context.Context, filter models.NoteFilter) ([]models.Note, error)
	createNoteFn  func(ctx context.Context, userID int64, req models.NoteRequest) (models.Note, error)
	getNoteFn     func(ctx context.Context, userID, noteID int64) (models.Note, error)
	updateNoteFn  func(ctx context.Context, userID, noteID int64, req models.NoteRequest) (models.Note, error)
	setFavoriteFn func(ctx context.Context, userID, noteID int64, favorite bool) (models.Note, error)
	deleteNoteFn  func(ctx context.Context, userID, noteID int64) (models.Note, error)
	restoreNoteFn func(ctx context.Context, userID, noteID int64) (models.Note, error)
	purgeNoteFn   func(ctx context.Context, userID, noteID int64) error
}

func (m *mockNoteService) ListNotes(ctx context.Context, filter models.NoteFilter) ([]models.Note, error) {
	return m.listNotesFn(ctx, filter)
}

func (m *mockNoteService) CreateNote(ctx context.Context, userID int64, req models.NoteRequest) (models.Note, error) {
	return m.createNoteFn(ctx, userID, req)
}

func (m *mockNoteService) GetNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	return m.getNoteFn(ctx, userID, noteID)
}

func (m *mockNoteService) UpdateNote(ctx context.Context, userID, noteID int64, req models.NoteRequest) (models.Note, error) {
	return m.updateNoteFn(ctx, userID, noteID, req)
}

func (m *mockNoteService) SetFavorite(ctx context.Context, userID, noteID int64, favorite bool) (models.Note, error) {
	return m.setFavoriteFn(ctx, userID, noteID, favorite)
}

func (m *mockNoteService) DeleteNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	return m.deleteNoteFn(ctx, userID, noteID)
}

func (m *mockNoteService) RestoreNote(ctx context.Context, userID, noteID int64) (models.Note, error) {
	return m.restoreNoteFn(ctx, userID, noteID)
}

func (m *mockNoteService) PurgeNote(ctx context.Context, userID, noteID int64) error {
	return m.purgeNoteFn(ctx, userID, noteID)
}

type mockRateLimiter struct {
	allowFn func(ctx context.Context, key string) (ratelimit.Decision, error)
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	return m.allowFn(ctx, key)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// acceptToken returns a parseTokenFn that accepts exactly token and
// rejects everything else.
func acceptToken(token string, claims models.Claims) func(context.Context, string) (models.Token, error) {
	return func(_ context.Context, s string) (models.Token, error) {
		if s != token {
			return models.Token{}, service.ErrTokenIsExpiredOrInvalid
		}
		return models.Token{SignedString: s, Claims: claims}, nil
	}
}

func newTestHandler(services *service.Services, opts ...Option) *Handler {
	return NewHandler(services, logger.Nop(), opts...)
}

// injectNopLogger puts a nop logger into the request context.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	return r.WithContext(nop.Logger.WithContext(r.Context()))
}

// withUser simulates the auth middleware.
func withUser(r *http.Request, userID int64) *http.Request {
	return r.WithContext(utils.WithClaims(r.Context(), models.Claims{ID: userID}))
}

func newJSONRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return injectNopLogger(req)
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[models.ErrorResponse](t, rr).Error
}
