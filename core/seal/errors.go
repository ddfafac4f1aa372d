package seal

import "errors"

var (
	// ErrNoSecret indicates the codec was constructed without any secret.
	ErrNoSecret = errors.New("no secret provided for session codec")

	// ErrSecretTooShort indicates a secret below the AES-256 minimum length.
	ErrSecretTooShort = errors.New("secret must be at least 32 characters long")

	// ErrKeyDerivation indicates HKDF key derivation failed.
	ErrKeyDerivation = errors.New("failed to derive sealing key")

	// ErrSealFailed indicates the record could not be sealed into a token.
	ErrSealFailed = errors.New("failed to seal session record")

	// ErrOpenFailed indicates the token is malformed, was tampered with, or
	// was sealed under a different secret. Callers must treat it exactly
	// like an absent session.
	ErrOpenFailed = errors.New("failed to open session token")
)
