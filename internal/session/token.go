package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/powercore-shop/storefront/pkg/errors"
)

var errAlreadyExpired = pkgerrors.New(pkgerrors.CodeUnauthorized, "access token already expired")

// Claims are the fields the client reads out of the backend's access token.
// The client never verifies the signature (it has no key material); the token
// is decoded purely to shape the session snapshot, and the backend remains
// the authority on every request.
type Claims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Type    string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// DecodeToken parses the JWT payload without signature verification.
func DecodeToken(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	return claims, nil
}

// ExpiresAtOrZero returns the embedded expiry, or the zero time when the
// token carries none.
func (c *Claims) ExpiresAtOrZero() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Expired reports whether the token is unusable at the given instant. A token
// without an expiry claim is treated as expired, matching the storefront's
// defensive handling of malformed tokens.
func (c *Claims) Expired(now time.Time) bool {
	exp := c.ExpiresAtOrZero()
	if exp.IsZero() {
		return true
	}
	return !exp.After(now)
}
