package csrf

import "errors"

var (
	// ErrTokenInvalid indicates the submitted token is absent or does not
	// match the session's expected token. It is surfaced as a distinct
	// rejection so callers never conflate it with a generic server error,
	// and the guarded mutation must not occur.
	ErrTokenInvalid = errors.New("csrf token missing or mismatched")

	// ErrTokenGeneration indicates the random source failed.
	ErrTokenGeneration = errors.New("failed to generate csrf token")
)
