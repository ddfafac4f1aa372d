package sessiontransport

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/gatekit/core/cookie"
	"github.com/dmitrymomot/gatekit/core/identity"
	"github.com/dmitrymomot/gatekit/core/seal"
	"github.com/dmitrymomot/gatekit/core/secrets"
	"github.com/dmitrymomot/gatekit/core/session"
)

// DefaultCookieName is the default name of the session carrier cookie.
const DefaultCookieName = "__session"

// Cookie is the full capability profile: it opens, seals, and mints sessions
// over a single HTTP cookie. The sealing secret is acquired lazily through
// the provider on first use, never at construction.
type Cookie struct {
	cookies   *cookie.Manager
	name      string
	ttl       time.Duration
	exchanger identity.Exchanger

	// codec is resolved once; secret acquisition happens inside.
	codec func() (*seal.Codec, error)
}

// CookieOption configures the full-profile transport.
type CookieOption func(*Cookie)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) CookieOption {
	return func(c *Cookie) {
		if name != "" {
			c.name = name
		}
	}
}

// WithTTL sets the lifetime of minted sessions. Zero means the record has no
// server-side expiry and lives until the client discards the cookie.
func WithTTL(ttl time.Duration) CookieOption {
	return func(c *Cookie) {
		c.ttl = ttl
	}
}

// WithExchanger sets the identity exchange collaborator used by Authenticate.
func WithExchanger(ex identity.Exchanger) CookieOption {
	return func(c *Cookie) {
		c.exchanger = ex
	}
}

// NewCookie creates the full-profile session transport.
func NewCookie(provider *secrets.Provider, cookies *cookie.Manager, opts ...CookieOption) *Cookie {
	c := &Cookie{
		cookies: cookies,
		name:    DefaultCookieName,
		ttl:     24 * time.Hour,
		codec: sync.OnceValues(func() (*seal.Codec, error) {
			secret, err := provider.Secret()
			if err != nil {
				return nil, err
			}
			return seal.New(secret)
		}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Load opens the session carried by the request. A missing, malformed,
// tampered, or expired token yields ErrNoSession; only a secret acquisition
// failure is surfaced as the distinct fatal configuration error.
func (c *Cookie) Load(r *http.Request) (session.Record, error) {
	codec, err := c.codec()
	if err != nil {
		return session.Record{}, err
	}

	token, err := c.cookies.Get(r, c.name)
	if err != nil {
		return session.Record{}, ErrNoSession
	}

	rec, err := codec.Open(token)
	if err != nil {
		return session.Record{}, errors.Join(ErrNoSession, err)
	}

	if rec.IsExpired() {
		return session.Record{}, errors.Join(ErrNoSession, ErrExpired)
	}

	return rec, nil
}

// Update merges patch into the current session's metadata, preserving keys
// the patch does not name, reseals the record, and attaches the fresh token
// to the response. The whole write is a single Set-Cookie: either the new
// token reaches the client or nothing does.
func (c *Cookie) Update(w http.ResponseWriter, r *http.Request, patch map[string]string) (session.Record, error) {
	rec, err := c.Load(r)
	if err != nil {
		return session.Record{}, err
	}

	rec.Merge(patch)

	if err := c.Save(w, rec); err != nil {
		return session.Record{}, err
	}

	return rec, nil
}

// Save reseals the record and attaches it to the response.
func (c *Cookie) Save(w http.ResponseWriter, rec session.Record) error {
	codec, err := c.codec()
	if err != nil {
		return err
	}

	token, err := codec.Seal(rec)
	if err != nil {
		return err
	}

	opts := []cookie.Option{}
	if !rec.ExpiresAt.IsZero() {
		until := time.Until(rec.ExpiresAt)
		if until <= 0 {
			return errors.Join(ErrNoSession, ErrExpired)
		}
		opts = append(opts, cookie.WithMaxAge(int(until.Seconds())))
	}

	return c.cookies.Set(w, c.name, token, opts...)
}

// Clear instructs the client to discard the carrying cookie. There is no
// server-side record to delete.
func (c *Cookie) Clear(w http.ResponseWriter) {
	c.cookies.Delete(w, c.name)
}

// Authenticate drives the identity exchange for the given assertion, mints an
// authenticated record, and attaches its sealed token to the response. Errors
// from the exchange pass through unmodified; callers behave as
// unauthenticated on any of them.
func (c *Cookie) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, assertion string) (session.Record, error) {
	if c.exchanger == nil {
		return session.Record{}, ErrNoExchanger
	}

	id, err := c.exchanger.Exchange(ctx, assertion)
	if err != nil {
		return session.Record{}, err
	}

	rec := session.New(id, c.ttl)

	// Carry over metadata from a pre-login anonymous session, if any.
	if prev, loadErr := c.Load(r); loadErr == nil {
		rec.Merge(prev.Metadata)
	}

	if err := c.Save(w, rec); err != nil {
		return session.Record{}, err
	}

	return rec, nil
}
