package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/apperr"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// UserStore defines the interface for user persistence. CreateUser assigns
// ID and CreatedAt and reports duplicates as models.ErrUsernameTaken or
// models.ErrEmailTaken.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Handler holds auth-related HTTP handlers. Login and register establish a
// cookie session and issue a bearer token for the same event; each is
// checked by its own middleware.
type Handler struct {
	users    UserStore
	sessions SessionStore
	cookies  *CookieSigner
	tokens   *TokenIssuer
	log      *slog.Logger
}

func NewHandler(users UserStore, sessions SessionStore, cookies *CookieSigner, tokens *TokenIssuer, log *slog.Logger) *Handler {
	return &Handler{users: users, sessions: sessions, cookies: cookies, tokens: tokens, log: log}
}

// dummyDigest lets a login for an unknown username cost the same scrypt
// work as a real one.
var dummyDigest, _ = HashPassword("\x00unknown-user\x00")

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.E(apperr.Validation, "invalid request body"))
		return
	}
	if err := validateRegister(&req); err != nil {
		apperr.Write(w, err)
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
		Name:         req.Name,
	})
	switch {
	case errors.Is(err, models.ErrUsernameTaken), errors.Is(err, models.ErrEmailTaken):
		apperr.Write(w, apperr.Wrap(apperr.Validation, err.Error(), err))
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "create user", "username", req.Username, "error", err)
		apperr.Write(w, err)
		return
	}

	h.log.InfoContext(r.Context(), "user registered", "user_id", user.ID, "role", user.Role)
	h.respondWithCredentials(w, r, user, http.StatusCreated)
}

// Login authenticates a user, creates a session and issues a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.E(apperr.Validation, "invalid request body"))
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		apperr.Write(w, apperr.E(apperr.Validation, "username and password are required"))
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		apperr.Write(w, err)
		return
	}
	if user == nil {
		VerifyPassword(req.Password, dummyDigest)
		h.log.WarnContext(r.Context(), "login failed", "username", req.Username)
		apperr.Write(w, apperr.E(apperr.Authentication, "invalid credentials"))
		return
	}
	if !VerifyPassword(req.Password, user.PasswordHash) {
		h.log.WarnContext(r.Context(), "login failed", "username", req.Username)
		apperr.Write(w, apperr.E(apperr.Authentication, "invalid credentials"))
		return
	}

	h.respondWithCredentials(w, r, user, http.StatusOK)
}

func (h *Handler) respondWithCredentials(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	sid, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "session creation failed", "user_id", user.ID, "error", err)
		apperr.Write(w, err)
		return
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	h.cookies.Set(w, sid)
	apperr.WriteJSON(w, status, models.AuthResponse{User: user, Token: token})
}

// Logout destroys the cookie session. Bearer tokens already issued stay
// valid until they expire.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid, ok := h.cookies.SessionID(r); ok {
		if err := h.sessions.Delete(r.Context(), sid); err != nil {
			h.log.WarnContext(r.Context(), "session delete failed", "error", err)
		}
	}
	h.cookies.Clear(w)
	apperr.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the user named by the bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		apperr.Write(w, apperr.E(apperr.Authentication, "not authenticated"))
		return
	}
	h.writeUser(w, r, claims.UserID)
}

// Session returns the user owning the cookie session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := SessionUserFromContext(r.Context())
	if !ok {
		apperr.Write(w, apperr.E(apperr.Authentication, "not authenticated"))
		return
	}
	h.writeUser(w, r, userID)
}

func (h *Handler) writeUser(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.users.GetUserByID(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		apperr.Write(w, apperr.E(apperr.NotFound, "user not found"))
		return
	}
	if err != nil {
		apperr.Write(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, user)
}

func validateRegister(req *models.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	var missing []string
	for _, f := range []struct{ name, val string }{
		{"username", req.Username},
		{"password", req.Password},
		{"email", req.Email},
		{"role", string(req.Role)},
		{"name", req.Name},
	} {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.E(apperr.Validation, "missing required fields: "+strings.Join(missing, ", "))
	}
	if !req.Role.Valid() {
		return apperr.E(apperr.Validation, "role must be job_seeker or hr")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperr.E(apperr.Validation, "invalid email address")
	}
	return nil
}
