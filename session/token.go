package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken signals that no access token is stored.
var ErrNoToken = errors.New("session: no access token")

// TokenInfo is the subset of access-token claims the client inspects locally.
// The client never verifies the signature; the signing key lives on the server
// and a 401 is the authoritative rejection.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect parses the stored access token without verifying it and returns the
// claims the client cares about.
func Inspect(store Store) (TokenInfo, error) {
	raw := store.AccessToken()
	if raw == "" {
		return TokenInfo{}, ErrNoToken
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return TokenInfo{}, fmt.Errorf("session: parse token: %w", err)
	}

	info := TokenInfo{}
	if sub, err := token.Claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

// Expired reports whether the stored access token has an expiry in the past.
// Tokens without an exp claim, or garbage tokens, report false here and are
// left for the server to reject.
func Expired(store Store, now time.Time) bool {
	info, err := Inspect(store)
	if err != nil {
		return false
	}
	if info.ExpiresAt.IsZero() {
		return false
	}
	return info.ExpiresAt.Before(now)
}
