package identity

import "errors"

var (
	// ErrExchangeFailed indicates the identity assertion could not be
	// verified. Callers must behave as unauthenticated on this error.
	ErrExchangeFailed = errors.New("identity exchange failed")

	// ErrNoSigningKey indicates the exchanger was built without a key.
	ErrNoSigningKey = errors.New("no signing key provided for identity exchange")
)
