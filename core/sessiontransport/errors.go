package sessiontransport

import "errors"

var (
	// ErrNoSession indicates the request carries no openable session:
	// cookie absent, token malformed or tampered, or record expired.
	// Authorization code treats all of these identically.
	ErrNoSession = errors.New("no session")

	// ErrExpired marks the expired-record case inside ErrNoSession joins.
	ErrExpired = errors.New("session has expired")

	// ErrNoExchanger indicates Authenticate was called on a transport built
	// without an identity exchanger.
	ErrNoExchanger = errors.New("no identity exchanger configured")
)
