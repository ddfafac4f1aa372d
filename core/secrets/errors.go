package secrets

import "errors"

// ErrNotConfigured indicates no source yielded a sealing secret. This is a
// deployment misconfiguration: the operation that needed the secret must
// abort, and the error must never be downgraded to "no session".
var ErrNotConfigured = errors.New("sealing secret is not configured")
