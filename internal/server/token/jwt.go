// Package token creates and parses the signed, time-bounded identity
// tokens issued by authvault. Tokens are HS256 JWTs carrying the identity
// claims plus issued-at and expiry timestamps.
package token

import (
	"fmt"
	"time"

	"github.com/authvault/authvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the identity fields embedded in a token. They mirror a user
// record at the moment of issuance and are not a live reference.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-wide secret. The secret
// is immutable after construction; key rotation is not supported.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with secret, with issued tokens valid
// for ttl.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue embeds the claims plus the current issued-at and expiry timestamps
// and returns the signed token string. Two issuances of the same claims at
// different instants produce different tokens; each verifies independently
// until its own expiry.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := time.Now()
	// The jti keeps two issuances distinct even within the one-second
	// granularity of iat/exp.
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of tok and returns the embedded
// Claims with the temporal metadata stripped. Every failure mode — bad
// signature, malformed structure, expiry — surfaces as
// common.ErrInvalidToken.
func (c *Codec) Parse(tok string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, common.ErrInvalidToken
	}

	// Callers get identity fields only, never iat/exp.
	claims.RegisteredClaims = jwt.RegisteredClaims{}
	return claims, nil
}
