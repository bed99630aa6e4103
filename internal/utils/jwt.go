package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Tokens are presented in the Authorization
// header when calling protected API endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ErrInvalidToken is returned by ParseAccessToken for any token that does
// not verify: bad signature, wrong algorithm, expired, malformed claims.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT carrying the identity
// triple.  The JWT includes the custom claims id, username and role plus
// standard exp and iat; ttlHours controls the lifetime (24 in production).
func NewAccessToken(secret string, ident Identity, ttlHours int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"id":       ident.ID,
		"username": ident.Username,
		"role":     ident.Role,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature and expiry of raw and extracts the
// identity claims.  Any failure collapses into ErrInvalidToken; callers do
// not need to distinguish why a token was rejected, only that this
// credential channel produced nothing.
func ParseAccessToken(secret, raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject any signing method other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	var ident Identity
	switch v := claims["id"].(type) {
	case float64:
		ident.ID = uint64(v)
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Identity{}, ErrInvalidToken
		}
		ident.ID = n
	default:
		return Identity{}, ErrInvalidToken
	}
	if s, ok := claims["username"].(string); ok {
		ident.Username = s
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Identity{}, ErrInvalidToken
	}
	ident.Role = role
	return ident, nil
}
