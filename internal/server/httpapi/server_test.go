package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telefeed/internal/common"
	"telefeed/internal/logging"
	"telefeed/internal/server/config"
	"telefeed/internal/server/messages"
	"telefeed/internal/server/telegram"
	"telefeed/internal/server/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- in-memory stores ---

type memUserRepo struct {
	byUsername map[string]*users.User
	byEmail    map[string]*users.User
	nextID     int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byUsername: map[string]*users.User{}, byEmail: map[string]*users.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	if _, ok := r.byUsername[u.Username]; ok {
		return nil, common.ErrUsernameTaken
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.ErrEmailTaken
	}
	r.nextID++
	u.ID = "id-" + strconv.Itoa(r.nextID)
	u.CreatedAt = time.Now()
	r.byUsername[u.Username] = u
	r.byEmail[u.Email] = u
	return u, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

type memMessageRepo struct {
	byMessageID map[int64]*messages.Message
	nextID      int64
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{byMessageID: map[int64]*messages.Message{}}
}

func (r *memMessageRepo) Create(ctx context.Context, m *messages.Message) (*messages.Message, error) {
	if _, ok := r.byMessageID[m.MessageID]; ok {
		return nil, common.ErrMessageExists
	}
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	r.byMessageID[m.MessageID] = m
	return m, nil
}

func (r *memMessageRepo) GetByMessageID(ctx context.Context, messageID int64) (*messages.Message, error) {
	m, ok := r.byMessageID[messageID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return m, nil
}

func (r *memMessageRepo) ExistsByMessageID(ctx context.Context, messageID int64) (bool, error) {
	_, ok := r.byMessageID[messageID]
	return ok, nil
}

func (r *memMessageRepo) ListByChannel(ctx context.Context, channelUsername string) ([]*messages.Message, error) {
	out := []*messages.Message{}
	for _, m := range r.byMessageID {
		if m.ChannelUsername == channelUsername {
			out = append(out, m)
		}
	}
	return out, nil
}

type memFetcher struct {
	updates []telegram.Update
	err     error
}

func (f *memFetcher) GetUpdates(ctx context.Context) ([]telegram.Update, error) {
	return f.updates, f.err
}

type seqIDGen struct{ next int64 }

func (g *seqIDGen) Generate() int64 {
	g.next++
	return g.next
}

// --- harness ---

type harness struct {
	server      *Server
	userRepo    *memUserRepo
	messageRepo *memMessageRepo
	fetcher     *memFetcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{
		EndpointAddr:                ":0",
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		TelegramChannel:             "newschannel",
		CORSAllowedOrigins:          []string{"http://localhost:3000"},
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	userRepo := newMemUserRepo()
	messageRepo := newMemMessageRepo()
	fetcher := &memFetcher{}

	us := users.NewService(userRepo, cfg)
	ms := messages.NewService(messageRepo, fetcher, &seqIDGen{}, cfg.TelegramChannel, logger)

	return &harness{
		server:      NewServer(cfg, logger, us, ms),
		userRepo:    userRepo,
		messageRepo: messageRepo,
		fetcher:     fetcher,
	}
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (h *harness) signup(t *testing.T) {
	t.Helper()
	w := h.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"name": "Ana", "username": "ana123", "email": "ana@x.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
}

func (h *harness) login(t *testing.T) string {
	t.Helper()
	w := h.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": "ana123", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)["token"].(string)
}

// --- auth endpoints ---

func TestSignup_ThenLogin(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"name": "Ana", "username": "ana123", "email": "ana@x.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "ana123", body["username"])

	w = h.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": "ana123", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "ana123", body["username"])
	assert.Equal(t, "ana@x.com", body["email"])
	assert.Equal(t, "Ana", body["name"])
}

func TestSignup_DuplicateUsername(t *testing.T) {
	h := newHarness(t)
	h.signup(t)

	w := h.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"name": "Ana Again", "username": "ana123", "email": "other@x.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "username_taken", body["type"])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.signup(t)

	w := h.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"name": "Other", "username": "other123", "email": "ana@x.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email_taken", decode(t, w)["type"])
}

func TestSignup_ValidationErrors(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/api/auth/signup", gin.H{
		"name": "", "username": "abc", "email": "not-an-email", "password": "123",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "name is required", body["name"])
	assert.Equal(t, "username must be between 4 and 20 characters", body["username"])
	assert.Equal(t, "email must be a valid email address", body["email"])
	assert.Equal(t, "password must be at least 6 characters", body["password"])

	// validation happens before the store is touched
	assert.Empty(t, h.userRepo.byUsername)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.signup(t)

	w := h.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": "ana123", "password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// generic payload, no password or hash fragments
	assert.Equal(t, gin.H{"error": "invalid credentials"}, gin.H(decode(t, w)))
	assert.NotContains(t, w.Body.String(), "wrong")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestLogin_UnknownUserSameAnswer(t *testing.T) {
	h := newHarness(t)
	h.signup(t)

	wrongPassword := h.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": "ana123", "password": "wrong",
	}, "")
	unknownUser := h.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"username": "ghost", "password": "wrong",
	}, "")

	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

// --- request authenticator ---

func TestTelegramRoutes_RequireAuth(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, http.MethodGet, "/api/telegram/messages", nil, tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthenticate_MalformedHeaderDoesNotAbortPublicRoutes(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Authorization", "Token abc") // not a Bearer header
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- telegram endpoints ---

func TestFetch_IngestsAndLists(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	token := h.login(t)

	h.fetcher.updates = []telegram.Update{
		{UpdateID: 1, ChannelPost: &telegram.Post{MessageID: 42, Text: "hello", Date: 1700000000}},
	}

	w := h.do(t, http.MethodPost, "/api/telegram/fetch", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodGet, "/api/telegram/messages", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var msgs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, float64(42), msgs[0]["messageId"])
	assert.Equal(t, "hello", msgs[0]["text"])
}

func TestFetch_UpstreamFailureStillAnswers200(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	token := h.login(t)

	h.fetcher.err = assert.AnError

	w := h.do(t, http.MethodPost, "/api/telegram/fetch", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodGet, "/api/telegram/status", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["lastError"])
}

func TestCreateManual(t *testing.T) {
	h := newHarness(t)
	h.signup(t)
	token := h.login(t)

	w := h.do(t, http.MethodPost, "/api/telegram/manual", gin.H{"text": "hello"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "hello", body["text"])
	assert.NotZero(t, body["messageId"])

	w = h.do(t, http.MethodPost, "/api/telegram/manual", gin.H{"text": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
