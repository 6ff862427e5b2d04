package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 24 * time.Hour
	SessionCookie = "session_id"
)

// SessionStore maps session ids to user ids.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	// Get returns the user id of a live session, or ok=false.
	Get(ctx context.Context, sessionID string) (userID int64, ok bool, err error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions in Redis with a TTL.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

// Create stores a new session mapping sessionID -> userID.
func (s *RedisSessionStore) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+sid, userID, s.ttl).Err()
	return sid, err
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (int64, bool, error) {
	val, err := s.rdb.Get(ctx, "session:"+sessionID).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, "session:"+sessionID).Err()
}

// MemorySessionStore is the single-process fallback used when Redis is
// not configured. Sessions are lost on restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memSession
}

type memSession struct {
	userID  int64
	expires time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, sessions: make(map[string]memSession)}
}

func (s *MemorySessionStore) Create(_ context.Context, userID int64) (string, error) {
	sid := uuid.New().String()
	s.mu.Lock()
	s.sessions[sid] = memSession{userID: userID, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return sid, nil
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0, false, nil
	}
	if time.Now().After(sess.expires) {
		delete(s.sessions, sessionID)
		return 0, false, nil
	}
	return sess.userID, true, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// CookieSigner binds session ids to SESSION_SECRET so a client cannot
// guess its way into someone else's session by editing the cookie.
type CookieSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewCookieSigner(secret string, ttl time.Duration) *CookieSigner {
	return &CookieSigner{secret: []byte(secret), ttl: ttl}
}

func (c *CookieSigner) sign(sid string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(sid))
	return hex.EncodeToString(mac.Sum(nil))
}

// Set writes the signed session cookie.
func (c *CookieSigner) Set(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid + "." + c.sign(sid),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.ttl / time.Second),
	})
}

// Clear expires the session cookie.
func (c *CookieSigner) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// SessionID returns the verified session id carried by r, if any.
func (c *CookieSigner) SessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	sid, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || sid == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(sid))) {
		return "", false
	}
	return sid, true
}
