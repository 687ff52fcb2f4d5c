package jwtx

import (
	"crypto/rand"
	"errors"
)

// Signer mints signed tokens from claims.
type Signer interface {
	Sign(claims Claims) (string, error)
}

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// MinSecretSize is the smallest HMAC secret we accept. Anything shorter is
// trivially brute-forceable.
const MinSecretSize = 32

// GenerateSecret returns a random HMAC secret. Used when no secret is
// configured; tokens signed with it die with the process.
func GenerateSecret() ([]byte, error) {
	b := make([]byte, MinSecretSize)
	if _, err := rand.Read(b); err != nil {
		return nil, errors.New("jwtx: failed to generate secret")
	}
	return b, nil
}
