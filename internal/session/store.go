// Package session implements the server-side session channel of the dual
// authentication scheme.  Sessions live in Redis keyed by an opaque random
// identifier carried in a cookie; the value is the JSON-encoded identity.
// Session state only mutates at login and logout, so no locking is needed
// beyond what Redis provides.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rmarchan/cine-gestion/internal/utils"
)

// CookieName is the cookie that carries the session identifier.
const CookieName = "session_id"

const keyPrefix = "session:"

// ErrNoSession is returned when the identifier is unknown, expired or the
// store is unavailable.
var ErrNoSession = errors.New("no session")

// Store persists sessions in Redis with a fixed TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore builds a Store.  ttlHours is the fixed session lifetime (24 in
// production).  The client may be nil, in which case every lookup fails
// with ErrNoSession and creation returns an error: the token channel keeps
// working without Redis.
func NewStore(rdb *redis.Client, ttlHours int) *Store {
	return &Store{rdb: rdb, ttl: time.Duration(ttlHours) * time.Hour}
}

// Create stores the identity under a fresh random session ID and returns
// the ID for the cookie.
func (s *Store) Create(ctx context.Context, ident utils.Identity) (string, error) {
	if s.rdb == nil {
		return "", errors.New("session store unavailable")
	}
	id, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(ident)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session ID back to its identity.
func (s *Store) Get(ctx context.Context, id string) (utils.Identity, error) {
	if s.rdb == nil || id == "" {
		return utils.Identity{}, ErrNoSession
	}
	payload, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		return utils.Identity{}, ErrNoSession
	}
	var ident utils.Identity
	if err := json.Unmarshal(payload, &ident); err != nil {
		return utils.Identity{}, ErrNoSession
	}
	return ident, nil
}

// Destroy removes the session.  Destroying an unknown ID is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if s.rdb == nil || id == "" {
		return nil
	}
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

// Cookie builds the session cookie for a freshly created session.
func (s *Store) Cookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().UTC().Add(s.ttl),
	}
}

// ExpiredCookie builds a cookie that clears the session on the client.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
