package csrf

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"github.com/dmitrymomot/gatekit/core/session"
)

const (
	// MetadataKey is the session metadata key holding the single currently
	// valid token. There is at most one valid token per session; rotation
	// replaces it, never appends.
	MetadataKey = "csrfToken"

	// FieldName is the hidden form field carrying the submitted token.
	FieldName = "_csrf"

	// tokenLength is the number of random bytes per token (256 bits).
	tokenLength = 32
)

// Generate produces an unpredictable opaque token from a cryptographically
// strong random source. The encoding carries no structure the client could
// interpret; unpredictability, not format, is the contract.
func Generate() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Validate reports whether submitted matches expected.
//
// Both sides are hashed before the constant-time compare, so the cost is
// independent of the position of the first differing byte and of any length
// mismatch. An empty value on either side never matches: "no token anywhere"
// is a failure, not agreement.
func Validate(submitted, expected string) bool {
	if submitted == "" || expected == "" {
		return false
	}
	sub := sha256.Sum256([]byte(submitted))
	exp := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(sub[:], exp[:]) == 1
}

// Token returns the session's currently valid token, if any.
func Token(rec session.Record) (string, bool) {
	return rec.Value(MetadataKey)
}

// Ensure lazily initializes the session's token before the first form
// render. Idempotent: when a token already exists it is returned unchanged
// and created is false.
func Ensure(rec *session.Record) (token string, created bool, err error) {
	if existing, ok := rec.Value(MetadataKey); ok && existing != "" {
		return existing, false, nil
	}
	token, err = Generate()
	if err != nil {
		return "", false, err
	}
	rec.SetValue(MetadataKey, token)
	return token, true, nil
}
