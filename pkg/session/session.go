// Package session handles the session token attached to storage API
// requests. Tokens are opaque to the client, but JWT-shaped tokens can
// be inspected for expiry so callers can warn before a doomed call.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is reported for tokens without a readable expiry claim,
// including opaque non-JWT tokens.
var ErrNoExpiry = errors.New("session: token carries no expiry")

// Session holds the token supplied by an external auth flow.
type Session struct {
	Token string
}

// New creates a session around the given token. Empty tokens are
// allowed; the service registry treats them as "not authenticated".
func New(token string) *Session {
	return &Session{Token: token}
}

// Authenticated reports whether a token is present at all.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Expiry extracts the expiry time from a JWT-shaped token. The token
// signature is NOT verified; the server remains the authority on
// validity. Non-JWT tokens and tokens without an exp claim return
// ErrNoExpiry.
func (s *Session) Expiry() (time.Time, error) {
	if !s.Authenticated() {
		return time.Time{}, ErrNoExpiry
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, ErrNoExpiry
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, ErrNoExpiry
	}

	return expiry.Time, nil
}

// Expired reports whether the token's expiry claim has passed. Tokens
// without a readable expiry are never considered expired client-side.
func (s *Session) Expired(now time.Time) bool {
	expiry, err := s.Expiry()
	if err != nil {
		return false
	}
	return now.After(expiry)
}
