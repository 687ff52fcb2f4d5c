package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the default lifetime for access tokens. Tokens
// are fully stateless, so an issued token stays valid until this elapses;
// there is no server-side revocation.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims are the access-token claims. The token is the sole source of truth
// for a request's identity: validation never goes back to the store, so a
// role change only takes effect once outstanding tokens expire.
type Claims struct {
	jwt.RegisteredClaims

	// UID is the user's record ID (subject carries the username).
	UID string `json:"uid,omitempty"`

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`

	// Role name, one of the closed role set (ADMIN, USER).
	Role string `json:"role,omitempty"`
}

// NewAccessClaims builds minimally-correct claims with subject=username and
// expiry at now+ttl.
func NewAccessClaims(
	username, uid, email, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UID:   uid,
		Email: email,
		Role:  role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before nbf.
func (c *Claims) ValidateExpiry(now time.Time) error {
	now = now.UTC()

	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
