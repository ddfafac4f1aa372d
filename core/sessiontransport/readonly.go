package sessiontransport

import (
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrymomot/gatekit/core/seal"
	"github.com/dmitrymomot/gatekit/core/secrets"
	"github.com/dmitrymomot/gatekit/core/session"
)

// ReadOnly is the restricted capability profile: it can open the session
// cookie to answer "is this request authenticated" and read identity, but
// it cannot seal, mint, or clear sessions. It consumes the same token format
// and secret as the full profile, so either side can open what the other
// sealed.
//
// Intended for constrained execution contexts (edge middleware, read-only
// gateways) where the full cryptographic surface is unwanted.
type ReadOnly struct {
	name   string
	opener func() (seal.Opener, error)
}

// ReadOnlyOption configures the restricted transport.
type ReadOnlyOption func(*ReadOnly)

// WithReadOnlyCookieName overrides the session cookie name.
func WithReadOnlyCookieName(name string) ReadOnlyOption {
	return func(t *ReadOnly) {
		if name != "" {
			t.name = name
		}
	}
}

// NewReadOnly creates the restricted session transport. Secret acquisition
// is deferred to the first Load.
func NewReadOnly(provider *secrets.Provider, opts ...ReadOnlyOption) *ReadOnly {
	t := &ReadOnly{
		name: DefaultCookieName,
		opener: sync.OnceValues(func() (seal.Opener, error) {
			secret, err := provider.Secret()
			if err != nil {
				return nil, err
			}
			return seal.NewOpener(secret)
		}),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Load opens the session carried by the request. Semantics match the full
// profile's Load: absent or unopenable tokens yield ErrNoSession, secret
// acquisition failures propagate as-is.
func (t *ReadOnly) Load(r *http.Request) (session.Record, error) {
	opener, err := t.opener()
	if err != nil {
		return session.Record{}, err
	}

	c, err := r.Cookie(t.name)
	if err != nil || c.Value == "" {
		return session.Record{}, ErrNoSession
	}

	rec, err := opener.Open(c.Value)
	if err != nil {
		return session.Record{}, errors.Join(ErrNoSession, err)
	}

	if rec.IsExpired() {
		return session.Record{}, errors.Join(ErrNoSession, ErrExpired)
	}

	return rec, nil
}
