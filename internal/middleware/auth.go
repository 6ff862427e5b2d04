package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/apperr"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/auth"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Gate authenticates requests by bearer token. It never consults the
// credential store: the token already carries the claims.
type Gate struct {
	tokens        TokenVerifier
	log           *slog.Logger
	invalidStatus int
}

func NewGate(tokens TokenVerifier, log *slog.Logger) *Gate {
	return &Gate{tokens: tokens, log: log, invalidStatus: http.StatusForbidden}
}

// WithInvalidStatus returns a copy of g that answers failed verification
// with status instead of 403.
func (g *Gate) WithInvalidStatus(status int) *Gate {
	cp := *g
	cp.invalidStatus = status
	return &cp
}

// Authenticate rejects requests without an "Authorization: Bearer" header
// with 401 and requests whose token fails verification with 403 (or the
// status set by WithInvalidStatus). On success the claims are attached to
// the request context.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			apperr.Write(w, apperr.E(apperr.Authentication, "authorization token missing"))
			return
		}

		claims, err := g.tokens.Verify(token)
		if err != nil {
			g.log.WarnContext(r.Context(), "bearer token rejected", "path", r.URL.Path, "reason", err)
			apperr.WriteJSON(w, g.invalidStatus, map[string]string{"error": "invalid or expired token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

// RequireRole allows the request through only if the authenticated role is
// in roles. It must run after Authenticate.
func (g *Gate) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				apperr.Write(w, apperr.E(apperr.Authentication, "not authenticated"))
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				g.log.WarnContext(r.Context(), "role check failed",
					"path", r.URL.Path, "user_id", claims.UserID, "role", claims.Role)
				apperr.Write(w, apperr.E(apperr.Authorization, "access forbidden for role "+string(claims.Role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireSession validates the signed session cookie and injects the
// session's user id into the request context. It is independent of the
// bearer token.
func RequireSession(sessions auth.SessionStore, cookies *auth.CookieSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := cookies.SessionID(r)
			if !ok {
				apperr.Write(w, apperr.E(apperr.Authentication, "not authenticated"))
				return
			}

			userID, ok, err := sessions.Get(r.Context(), sid)
			if err != nil {
				apperr.Write(w, err)
				return
			}
			if !ok {
				apperr.Write(w, apperr.E(apperr.Authentication, "session expired"))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSessionUser(r.Context(), userID)))
		})
	}
}
