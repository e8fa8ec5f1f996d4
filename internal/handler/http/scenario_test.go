package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-notes-keeper/internal/config"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/internal/service"
	"github.com/MKhiriev/go-notes-keeper/internal/store"
	"github.com/MKhiriev/go-notes-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryDB is an in-memory stand-in for the three repositories.
type memoryDB struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
	tokens map[string]models.PasswordResetToken
	notes  map[int64]models.Note
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:  map[int64]models.User{},
		tokens: map[string]models.PasswordResetToken{},
		notes:  map[int64]models.Note{},
	}
}

func (db *memoryDB) storages() *store.Storages {
	return &store.Storages{
		UserRepository:       memoryUsers{db},
		ResetTokenRepository: memoryTokens{db},
		NoteRepository:       memoryNotes{db},
	}
}

type memoryUsers struct{ db *memoryDB }

func (m memoryUsers) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, u := range m.db.users {
		if u.Email == user.Email {
			return models.User{}, store.ErrEmailAlreadyExists
		}
		if u.Username == user.Username {
			return models.User{}, store.ErrUsernameAlreadyExists
		}
	}
	m.db.nextID++
	user.ID = m.db.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.db.users[user.ID] = user

	user.PasswordHash = ""
	return user, nil
}

func (m memoryUsers) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, u := range m.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m memoryUsers) FindUserByID(_ context.Context, userID int64) (models.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	u, ok := m.db.users[userID]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	return u, nil
}

func (m memoryUsers) EmailTaken(_ context.Context, email string, excludeUserID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, u := range m.db.users {
		if u.Email == email && u.ID != excludeUserID {
			return true, nil
		}
	}
	return false, nil
}

func (m memoryUsers) UsernameTaken(_ context.Context, username string, excludeUserID int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, u := range m.db.users {
		if u.Username == username && u.ID != excludeUserID {
			return true, nil
		}
	}
	return false, nil
}

func (m memoryUsers) UpdateProfile(_ context.Context, user models.User) (models.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	stored, ok := m.db.users[user.ID]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	stored.Email, stored.Username = user.Email, user.Username
	stored.Name, stored.ProfilePicture, stored.Bio = user.Name, user.ProfilePicture, user.Bio
	stored.UpdatedAt = time.Now()
	m.db.users[user.ID] = stored

	stored.PasswordHash = ""
	return stored, nil
}

func (m memoryUsers) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	u, ok := m.db.users[userID]
	if !ok {
		return store.ErrNoUserWasFound
	}
	u.PasswordHash = passwordHash
	m.db.users[userID] = u
	return nil
}

func (m memoryUsers) DeleteUser(_ context.Context, userID int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if _, ok := m.db.users[userID]; !ok {
		return store.ErrNoUserWasFound
	}
	delete(m.db.users, userID)
	for id, n := range m.db.notes {
		if n.UserID == userID {
			delete(m.db.notes, id)
		}
	}
	for value, tok := range m.db.tokens {
		if tok.UserID == userID {
			delete(m.db.tokens, value)
		}
	}
	return nil
}

type memoryTokens struct{ db *memoryDB }

func (m memoryTokens) CreateToken(_ context.Context, token models.PasswordResetToken) (models.PasswordResetToken, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	token.CreatedAt = time.Now()
	m.db.tokens[token.Token] = token
	return token, nil
}

func (m memoryTokens) FindValidToken(_ context.Context, token string) (models.PasswordResetToken, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	tok, ok := m.db.tokens[token]
	if !ok || !tok.IsValidAt(time.Now()) {
		return models.PasswordResetToken{}, store.ErrResetTokenNotFound
	}
	return tok, nil
}

func (m memoryTokens) RedeemToken(_ context.Context, token, passwordHash string) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	tok, ok := m.db.tokens[token]
	if !ok || !tok.IsValidAt(time.Now()) {
		return 0, store.ErrResetTokenNotFound
	}
	delete(m.db.tokens, token)

	u := m.db.users[tok.UserID]
	u.PasswordHash = passwordHash
	m.db.users[tok.UserID] = u
	return tok.UserID, nil
}

func (m memoryTokens) DeleteExpired(context.Context) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	var n int64
	for value, tok := range m.db.tokens {
		if !tok.IsValidAt(time.Now()) {
			delete(m.db.tokens, value)
			n++
		}
	}
	return n, nil
}

type memoryNotes struct{ db *memoryDB }

func (m memoryNotes) List(_ context.Context, filter models.NoteFilter) ([]models.Note, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	notes := []models.Note{}
	for _, n := range m.db.notes {
		if n.UserID != filter.UserID || (n.DeletedAt != nil) != filter.Deleted {
			continue
		}
		if filter.FavoritesOnly && !n.IsFavorite {
			continue
		}
		if filter.Tag != "" && !slices.Contains(n.Tags, filter.Tag) {
			continue
		}
		notes = append(notes, n)
	}
	slices.SortFunc(notes, func(a, b models.Note) int { return int(b.ID - a.ID) })
	return notes, nil
}

func (m memoryNotes) Create(_ context.Context, note models.Note) (models.Note, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.db.nextID++
	note.ID = m.db.nextID
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	m.db.notes[note.ID] = note
	return note, nil
}

// owned returns the note if it belongs to userID and its deleted state matches.
func (m memoryNotes) owned(userID, noteID int64, deleted bool) (models.Note, bool) {
	n, ok := m.db.notes[noteID]
	if !ok || n.UserID != userID || (n.DeletedAt != nil) != deleted {
		return models.Note{}, false
	}
	return n, true
}

func (m memoryNotes) Get(_ context.Context, userID, noteID int64) (models.Note, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	n, ok := m.owned(userID, noteID, false)
	if !ok {
		return models.Note{}, store.ErrNoteNotFound
	}
	return n, nil
}

func (m memoryNotes) Update(_ context.Context, note models.Note) (models.Note, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	n, ok := m.owned(note.UserID, note.ID, false)
	if !ok {
		return models.Note{}, store.ErrNoteNotFound
	}
	n.Title, n.Content, n.Tags = note.Title, note.Content, note.Tags
	n.UpdatedAt = time.Now()
	m.db.notes[n.ID] = n
	return n, nil
}

func (m memoryNotes) SetFavorite(_ context.Context, userID, noteID int64, favorite bool) (models.Note, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	n, ok := m.owned(userID, noteID, false)
	if !ok {
		return models.Note{}, store.ErrNoteNotFound
	}
	n.IsFavorite = favorite
	m.db.notes[n.ID] = n
	return n, nil
}

func (m memoryNotes) SoftDelete(_ context.Context, userID, noteID int64) (models.Note, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	n, ok := m.owned(userID, noteID, false)
	if !ok {
		return models.Note{}, store.ErrNoteNotFound
	}
	now := time.Now()
	n.DeletedAt = &now
	m.db.notes[n.ID] = n
	return n, nil
}

func (m memoryNotes) Restore(_ context.Context, userID, noteID int64) (models.Note, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	n, ok := m.owned(userID, noteID, true)
	if !ok {
		return models.Note{}, store.ErrNoteNotFound
	}
	n.DeletedAt = nil
	m.db.notes[n.ID] = n
	return n, nil
}

func (m memoryNotes) Purge(_ context.Context, userID, noteID int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if _, ok := m.owned(userID, noteID, true); !ok {
		return store.ErrNoteNotFound
	}
	delete(m.db.notes, noteID)
	return nil
}

// outbox records reset links instead of mailing them.
type outbox struct {
	mu    sync.Mutex
	links map[string]string
}

func (o *outbox) SendPasswordReset(_ context.Context, to, link string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.links[to] = link
	return nil
}

func (o *outbox) token(t *testing.T, to string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()

	link, err := url.Parse(o.links[to])
	require.NoError(t, err)
	return link.Query().Get("token")
}

type apiClient struct {
	t      *testing.T
	router chi.Router
	token  string
}

func (c *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rr := httptest.NewRecorder()
	c.router.ServeHTTP(rr, req)
	return rr
}

func newScenario(t *testing.T) (*apiClient, *outbox) {
	t.Helper()

	cfg := config.StructuredConfig{App: config.App{
		TokenSignKey:       "scenario-secret",
		TokenIssuer:        "notes-keeper",
		TokenDuration:      time.Hour,
		ResetTokenDuration: time.Hour,
		ResetLinkBaseURL:   "http://localhost:3000/reset-password",
		BcryptCost:         4,
		HashConcurrency:    2,
	}}
	mail := &outbox{links: map[string]string{}}
	services := service.NewServices(newMemoryDB().storages(), mail, cfg, logger.Nop())

	return &apiClient{t: t, router: NewHandler(services, logger.Nop()).Init()}, mail
}

func TestScenario_AccountLifecycle(t *testing.T) {
	api, mail := newScenario(t)

	rr := api.do(http.MethodPost, "/register", `{"email":"alice@x.io","username":"alice","password":"first-pass"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = api.do(http.MethodPost, "/register", `{"email":"alice@x.io","username":"other","password":"p"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Email already registered.", errorMessage(t, rr))

	rr = api.do(http.MethodPost, "/register", `{"email":"bob@x.io","username":"alice","password":"p"}`)
	assert.Equal(t, "Username already taken.", errorMessage(t, rr))

	rr = api.do(http.MethodPost, "/login", `{"email":"alice@x.io","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = api.do(http.MethodPost, "/login", `{"email":"alice@x.io","password":"first-pass"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	login := decodeBody[models.LoginResponse](t, rr)
	assert.Equal(t, "alice", login.Username)
	api.token = login.Token

	rr = api.do(http.MethodPut, "/profile", `{"email":"alice@x.io","username":"alice","bio":"hi"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, rr.Code)
	profile := decodeBody[models.User](t, rr)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "hi", *profile.Bio)

	rr = api.do(http.MethodPost, "/change-password", `{"currentPassword":"nope","newPassword":"second-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "The current password you entered is incorrect.", errorMessage(t, rr))

	rr = api.do(http.MethodPost, "/change-password", `{"currentPassword":"first-pass","newPassword":"second-pass"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	// password reset with the emailed token, which works exactly once
	api.token = ""
	rr = api.do(http.MethodPost, "/forgot-password", `{"email":"alice@x.io"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	resetToken := mail.token(t, "alice@x.io")
	require.Len(t, resetToken, 64)

	rr = api.do(http.MethodPost, "/reset-password", `{"token":"`+resetToken+`","newPassword":"third-pass"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodPost, "/reset-password", `{"token":"`+resetToken+`","newPassword":"fourth-pass"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid or expired token.", errorMessage(t, rr))

	rr = api.do(http.MethodPost, "/login", `{"email":"alice@x.io","password":"second-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = api.do(http.MethodPost, "/login", `{"email":"alice@x.io","password":"third-pass"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	api.token = decodeBody[models.LoginResponse](t, rr).Token

	rr = api.do(http.MethodDelete, "/delete-account", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodGet, "/profile", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	api.token = ""
	rr = api.do(http.MethodPost, "/forgot-password", `{"email":"alice@x.io"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestScenario_Notes(t *testing.T) {
	api, _ := newScenario(t)

	for _, u := range []string{"alice", "bob"} {
		rr := api.do(http.MethodPost, "/register", `{"email":"`+u+`@x.io","username":"`+u+`","password":"pass"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	tokenFor := func(u string) string {
		rr := api.do(http.MethodPost, "/login", `{"email":"`+u+`@x.io","password":"pass"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		return decodeBody[models.LoginResponse](t, rr).Token
	}
	aliceToken, bobToken := tokenFor("alice"), tokenFor("bob")

	api.token = aliceToken
	rr := api.do(http.MethodPost, "/notes", `{"title":"groceries","content":"milk","tags":[" home ","Home","shop"]}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	first := decodeBody[models.Note](t, rr)
	assert.Equal(t, models.Tags{"HOME", "SHOP"}, first.Tags)

	rr = api.do(http.MethodPost, "/notes", `{"title":"standup","content":"notes","tags":["work"]}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	second := decodeBody[models.Note](t, rr)

	rr = api.do(http.MethodPost, "/notes", `{"title":"","content":"x"}`)
	assert.Equal(t, "Title and content are required.", errorMessage(t, rr))

	rr = api.do(http.MethodGet, "/notes?tag=work", "")
	require.Equal(t, http.StatusOK, rr.Code)
	notes := decodeBody[[]models.Note](t, rr)
	require.Len(t, notes, 1)
	assert.Equal(t, second.ID, notes[0].ID)

	rr = api.do(http.MethodPut, "/notes/"+strconv.FormatInt(first.ID, 10)+"/favorite", `{"favorite":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = api.do(http.MethodGet, "/notes?favorites=true", "")
	assert.Len(t, decodeBody[[]models.Note](t, rr), 1)

	// bob cannot see or touch alice's notes
	api.token = bobToken
	firstPath := "/notes/" + strconv.FormatInt(first.ID, 10)
	rr = api.do(http.MethodGet, firstPath, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = api.do(http.MethodDelete, firstPath, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = api.do(http.MethodGet, "/notes", "")
	assert.JSONEq(t, `[]`, rr.Body.String())

	api.token = aliceToken
	rr = api.do(http.MethodPut, firstPath, `{"title":"groceries","content":"milk, eggs"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "milk, eggs", decodeBody[models.Note](t, rr).Content)

	rr = api.do(http.MethodDelete, firstPath, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodGet, firstPath, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(http.MethodGet, "/recently-deleted", "")
	deleted := decodeBody[[]models.Note](t, rr)
	require.Len(t, deleted, 1)
	assert.Equal(t, first.ID, deleted[0].ID)

	deletedPath := "/recently-deleted/" + strconv.FormatInt(first.ID, 10)
	rr = api.do(http.MethodPost, deletedPath+"/restore", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = api.do(http.MethodGet, firstPath, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodDelete, deletedPath, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Note not found in recently deleted or access denied.", errorMessage(t, rr))

	api.do(http.MethodDelete, firstPath, "")
	rr = api.do(http.MethodDelete, deletedPath, "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = api.do(http.MethodGet, "/recently-deleted", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}
