package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-notes-keeper/internal/config"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/utils"
	"github.com/MKhiriev/go-notes-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the REST implementation of [ServerAdapter].
// It normalises the base URL from cfg.ServerAddress, applies the request
// timeout and, when cfg.Token is set, authenticates every request with it.
//
// Returns an error wrapping [ErrInvalidAddress] if cfg.ServerAddress is empty
// or cannot be parsed as a URL.
func NewHTTPServerAdapter(cfg config.ClientConfig, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	a := &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}
	if cfg.Token != "" {
		a.SetToken(cfg.Token)
	}

	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. The whitespace-trimmed token is sent
// as a bearer token with every subsequent request.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.token = strings.TrimSpace(token)
	h.client.SetBearerToken(h.token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter] via POST /register.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	resp, err := execute[models.UserResponse](h.request(ctx).SetBody(req), http.MethodPost, "/register", "register")
	return resp.User, err
}

// Login implements [ServerAdapter] via POST /login and keeps the issued token.
func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	resp, err := execute[models.LoginResponse](h.request(ctx).SetBody(req), http.MethodPost, "/login", "login")
	if err != nil {
		return resp, err
	}

	h.SetToken(resp.Token)
	h.logger.Debug().Str("username", resp.Username).Msg("logged in")
	return resp, nil
}

func (h *httpServerAdapter) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error) {
	return message(h.request(ctx).SetBody(req), http.MethodPost, "/forgot-password", "forgot password")
}

func (h *httpServerAdapter) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error) {
	return message(h.request(ctx).SetBody(req), http.MethodPost, "/reset-password", "reset password")
}

func (h *httpServerAdapter) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error) {
	return message(h.request(ctx).SetBody(req), http.MethodPost, "/change-password", "change password")
}

func (h *httpServerAdapter) GetProfile(ctx context.Context) (models.User, error) {
	return execute[models.User](h.request(ctx), http.MethodGet, "/profile", "get profile")
}

func (h *httpServerAdapter) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.User, error) {
	resp, err := execute[models.UserResponse](h.request(ctx).SetBody(req), http.MethodPut, "/profile", "update profile")
	return resp.User, err
}

func (h *httpServerAdapter) DeleteAccount(ctx context.Context) (string, error) {
	msg, err := message(h.request(ctx), http.MethodDelete, "/delete-account", "delete account")
	if err == nil {
		h.SetToken("")
	}
	return msg, err
}

// ListNotes implements [ServerAdapter] via GET /notes.
func (h *httpServerAdapter) ListNotes(ctx context.Context, query NoteQuery) ([]models.Note, error) {
	req := h.request(ctx)
	if query.Tag != "" {
		req.SetQueryParam("tag", query.Tag)
	}
	if query.FavoritesOnly {
		req.SetQueryParam("favorites", "true")
	}
	return execute[[]models.Note](req, http.MethodGet, "/notes", "list notes")
}

func (h *httpServerAdapter) CreateNote(ctx context.Context, req models.NoteRequest) (models.Note, error) {
	return execute[models.Note](h.request(ctx).SetBody(req), http.MethodPost, "/notes", "create note")
}

func (h *httpServerAdapter) GetNote(ctx context.Context, noteID int64) (models.Note, error) {
	return execute[models.Note](h.noteRequest(ctx, noteID), http.MethodGet, "/notes/{id}", "get note")
}

func (h *httpServerAdapter) UpdateNote(ctx context.Context, noteID int64, req models.NoteRequest) (models.Note, error) {
	return execute[models.Note](h.noteRequest(ctx, noteID).SetBody(req), http.MethodPut, "/notes/{id}", "update note")
}

func (h *httpServerAdapter) SetFavorite(ctx context.Context, noteID int64, favorite bool) (models.Note, error) {
	body := models.FavoriteRequest{Favorite: favorite}
	return execute[models.Note](h.noteRequest(ctx, noteID).SetBody(body), http.MethodPut, "/notes/{id}/favorite", "set favorite")
}

func (h *httpServerAdapter) DeleteNote(ctx context.Context, noteID int64) (models.Note, error) {
	resp, err := execute[models.NoteResponse](h.noteRequest(ctx, noteID), http.MethodDelete, "/notes/{id}", "delete note")
	return resp.Note, err
}

func (h *httpServerAdapter) ListRecentlyDeleted(ctx context.Context) ([]models.Note, error) {
	return execute[[]models.Note](h.request(ctx), http.MethodGet, "/recently-deleted", "list recently deleted")
}

func (h *httpServerAdapter) RestoreNote(ctx context.Context, noteID int64) (models.Note, error) {
	return execute[models.Note](h.noteRequest(ctx, noteID), http.MethodPost, "/recently-deleted/{id}/restore", "restore note")
}

func (h *httpServerAdapter) PurgeNote(ctx context.Context, noteID int64) (string, error) {
	return message(h.noteRequest(ctx, noteID), http.MethodDelete, "/recently-deleted/{id}", "purge note")
}

func (h *httpServerAdapter) request(ctx context.Context) *resty.Request {
	return h.client.R().SetContext(ctx)
}

func (h *httpServerAdapter) noteRequest(ctx context.Context, noteID int64) *resty.Request {
	return h.request(ctx).SetPathParam("id", strconv.FormatInt(noteID, 10))
}

// execute sends req and decodes a 2xx JSON body into T. op names the call in
// transport errors.
func execute[T any](req *resty.Request, method, path, op string) (T, error) {
	var result T

	resp, err := req.SetResult(&result).Execute(method, path)
	if err != nil {
		return result, fmt.Errorf("%s request: %w", op, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return result, err
	}

	return result, nil
}

func message(req *resty.Request, method, path, op string) (string, error) {
	resp, err := execute[models.MessageResponse](req, method, path, op)
	return resp.Message, err
}
