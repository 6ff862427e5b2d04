package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/auth"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/logging"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/middleware"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/store"
)

type fixture struct {
	router   http.Handler
	sessions *auth.MemorySessionStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.Discard()
	users := store.NewMemoryStore()
	sessions := auth.NewMemorySessionStore(auth.SessionTTL)
	cookies := auth.NewCookieSigner("session-secret", auth.SessionTTL)
	tokens := auth.NewTokenIssuer("jwt-secret", auth.TokenTTL)
	h := auth.NewHandler(users, sessions, cookies, tokens, log)
	gate := middleware.NewGate(tokens, log)

	r := chi.NewRouter()
	r.Post("/api/register", h.Register)
	r.Post("/api/login", h.Login)
	r.Post("/api/logout", h.Logout)
	r.With(gate.WithInvalidStatus(http.StatusUnauthorized).Authenticate).Get("/api/user", h.Me)
	r.With(middleware.RequireSession(sessions, cookies)).Get("/api/session", h.Session)
	return &fixture{router: r, sessions: sessions}
}

func (f *fixture) do(t *testing.T, method, path string, body any, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func registerBody(username, email string, role models.Role) models.RegisterRequest {
	return models.RegisterRequest{
		Username: username,
		Password: "pa55word!",
		Email:    email,
		Role:     role,
		Name:     "Test " + username,
	}
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) models.AuthResponse {
	t.Helper()
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestRegister_ReturnsUserAndToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/register", registerBody("alice", "alice@example.com", models.RoleHR), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeAuth(t, rec)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, models.RoleHR, resp.User.Role)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, rec.Body.String(), "password")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookie, cookies[0].Name)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing username", registerBody("", "a@example.com", models.RoleHR)},
		{"missing email", registerBody("a", "", models.RoleHR)},
		{"bad role", registerBody("a", "a@example.com", "admin")},
		{"missing role", registerBody("a", "a@example.com", "")},
		{"bad email", registerBody("a", "not-an-email", models.RoleHR)},
		{"not json", "{"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/register", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_DuplicateUsernameAndEmail(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/register", registerBody("alice", "alice@example.com", models.RoleJobSeeker), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/register", registerBody("alice", "other@example.com", models.RoleJobSeeker), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already taken")

	rec = f.do(t, http.MethodPost, "/api/register", registerBody("alicia", "alice@example.com", models.RoleJobSeeker), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already registered")
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/api/register", registerBody("bob", "bob@example.com", models.RoleJobSeeker), nil).Code)

	rec := f.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: "bob", Password: "pa55word!"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeAuth(t, rec)
	assert.Equal(t, "bob", resp.User.Username)
	assert.NotEmpty(t, resp.Token)

	rec = f.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: "bob", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: "nobody", Password: "pa55word!"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_TrimsUsernameLikeRegister(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated,
		f.do(t, http.MethodPost, "/api/register", registerBody(" alice", "alice@example.com", models.RoleHR), nil).Code)

	for _, name := range []string{" alice", "alice", "alice \t"} {
		rec := f.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: name, Password: "pa55word!"}, nil)
		require.Equal(t, http.StatusOK, rec.Code, "%q", name)
		assert.Equal(t, "alice", decodeAuth(t, rec).User.Username)
	}

	rec := f.do(t, http.MethodPost, "/api/login", models.LoginRequest{Username: "   ", Password: "pa55word!"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUser_RequiresBearer(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/register", registerBody("carol", "carol@example.com", models.RoleHR), nil)
	token := decodeAuth(t, rec).Token

	rec = f.do(t, http.MethodGet, "/api/user", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "carol", u.Username)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/user", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/user", nil, bearer("garbage")).Code)

	expired, err := auth.NewTokenIssuer("jwt-secret", -time.Minute).Issue(&u)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/user", nil, bearer(expired)).Code)
}

func TestLogout_ClearsSessionButNotToken(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/register", registerBody("dave", "dave@example.com", models.RoleJobSeeker), nil)
	token := decodeAuth(t, rec).Token
	cookie := rec.Result().Cookies()[0]

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/session", nil, nil, cookie).Code)

	rec = f.do(t, http.MethodPost, "/api/logout", nil, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	// the cookie session is gone
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/session", nil, nil, cookie).Code)
	// the bearer token still works until it expires
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/user", nil, bearer(token)).Code)
}

func TestLogout_WithoutSession(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/logout", nil, nil).Code)
}
