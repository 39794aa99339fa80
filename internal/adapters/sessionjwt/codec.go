package sessionjwt

// Package sessionjwt serializes sessions into signed, self-contained JWT
// carriers. The carrier is the only copy of the session; there is no
// server-side store, so everything needed to reconstruct the session travels
// inside the token and nothing is trusted until the signature checks out.

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	"github.com/corderos/corderos-go/internal/ports"
)

// Compile-time conformance to the SessionCodec port.
var _ ports.SessionCodec = (*Codec)(nil)

// ErrMalformed is returned for any carrier that fails structural or integrity
// checks. Callers treat it uniformly; the reason is not security relevant.
var ErrMalformed = errors.New("malformed session carrier")

// Codec signs and verifies session carriers with HMAC-SHA256.
type Codec struct {
	key []byte
}

// NewCodec creates a codec keyed by the session signing secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	return &Codec{key: []byte(secret)}, nil
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Encode serializes a session into a signed carrier string.
func (c *Codec) Encode(sess domainauth.Session) (string, error) {
	if sess.Subject == "" {
		return "", errors.New("session subject cannot be empty")
	}
	if !sess.Role.Valid() {
		return "", fmt.Errorf("invalid session role %q", sess.Role)
	}
	if !sess.IssuedAt.Before(sess.ExpiresAt) {
		return "", errors.New("session issued_at must precede expires_at")
	}

	claims := sessionClaims{
		Role: string(sess.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Subject,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session carrier: %w", err)
	}
	return signed, nil
}

// Decode verifies a carrier and reconstructs its session. Expiry is not
// judged here: the session manager owns the clock, so Decode returns even an
// expired session as long as it is intact, and ErrMalformed for everything
// else (bad signature, wrong algorithm, missing claims).
func (c *Codec) Decode(carrier string) (domainauth.Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(carrier, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return c.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Strict base64 so a flipped trailing bit can never slip past the
		// signature check.
		jwt.WithStrictDecoding(),
		// The manager compares expiry against its own clock; skipping the
		// library's claim validation keeps that decision in one place.
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	role := domainauth.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return domainauth.Session{}, ErrMalformed
	}

	sess := domainauth.Session{
		Subject:   claims.Subject,
		Role:      role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if !sess.IssuedAt.Before(sess.ExpiresAt) {
		return domainauth.Session{}, ErrMalformed
	}
	return sess, nil
}
