package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/gatekit/core/session"
)

// Claims is the assertion payload the provider signs.
type Claims struct {
	jwt.RegisteredClaims
	Name   string   `json:"name,omitempty"`
	Email  string   `json:"email,omitempty"`
	Groups []string `json:"groups,omitempty"`
}

// JWT verifies HMAC-signed identity assertions and, for the full capability
// profile, mints them. It is the in-repo Exchanger implementation; federated
// providers plug in behind the same interface.
type JWT struct {
	key    []byte
	issuer string
}

// JWTOption configures the JWT exchanger.
type JWTOption func(*JWT)

// WithIssuer requires assertions to carry the given issuer claim.
func WithIssuer(issuer string) JWTOption {
	return func(j *JWT) {
		j.issuer = issuer
	}
}

// NewJWT creates a JWT-backed exchanger from a signing key.
func NewJWT(signingKey string, opts ...JWTOption) (*JWT, error) {
	if signingKey == "" {
		return nil, ErrNoSigningKey
	}

	j := &JWT{key: []byte(signingKey)}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Exchange verifies the assertion signature and expiry and maps its claims
// onto a session identity. Every failure wraps ErrExchangeFailed with the
// provider's error carried through unmodified.
func (j *JWT) Exchange(_ context.Context, assertion string) (session.Identity, error) {
	claims := &Claims{}

	parseOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if j.issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(assertion, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.key, nil
	}, parseOpts...)
	if err != nil {
		return session.Identity{}, errors.Join(ErrExchangeFailed, err)
	}
	if !token.Valid || claims.Subject == "" {
		return session.Identity{}, ErrExchangeFailed
	}

	return session.Identity{
		Subject: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Groups:  claims.Groups,
	}, nil
}

// Mint signs an assertion for the given identity, valid for ttl. Only the
// full capability profile calls this; the restricted profile never signs.
func (j *JWT) Mint(identity session.Identity, ttl time.Duration) (string, error) {
	if identity.Subject == "" {
		return "", ErrExchangeFailed
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:   identity.Name,
		Email:  identity.Email,
		Groups: identity.Groups,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
}
