// Package token encodes and decodes the signed, time-limited tokens used for
// API access, email confirmation and password reset. Tokens are
// self-contained HS256 JWTs; the server keeps no session table, so validity
// is purely signature + expiry at verification time.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contactbook/contacts-api/internal/core/domain"
)

// Purpose tags a token with the single operation it is valid for.
type Purpose string

const (
	PurposeAccess Purpose = "access"
	PurposeEmail  Purpose = "email"
	PurposeReset  Purpose = "reset"
)

// Lifetimes for the non-access purposes. A reset link is higher-value than a
// confirmation link, so it lives an hour while confirmation gets a week.
const (
	EmailTokenTTL = 7 * 24 * time.Hour
	ResetTokenTTL = time.Hour
)

type claims struct {
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Codec issues and verifies tokens with a process-wide secret. The zero
// value is not usable; construct with NewCodec.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// WithClock overrides the time source, for expiry tests.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Issue signs a token for subject valid for ttl from now.
func (c *Codec) Issue(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString(c.secret)
}

// Verify parses and validates tokenString and returns its subject. Any
// failure, whether a bad signature, malformed structure, wrong purpose or
// elapsed expiry, collapses to domain.ErrInvalidToken so callers cannot be
// used as a validation oracle.
func (c *Codec) Verify(tokenString string, purpose Purpose) (string, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(tokenString, &cl, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if cl.Purpose != purpose || cl.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return cl.Subject, nil
}
