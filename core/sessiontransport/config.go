package sessiontransport

import (
	"time"

	"github.com/dmitrymomot/gatekit/core/cookie"
	"github.com/dmitrymomot/gatekit/core/secrets"
)

// Config provides environment-based configuration for the session transport.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"__session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// NewCookieFromConfig creates the full-profile transport from configuration.
func NewCookieFromConfig(cfg Config, provider *secrets.Provider, cookies *cookie.Manager, opts ...CookieOption) *Cookie {
	configOpts := []CookieOption{
		WithCookieName(cfg.CookieName),
		WithTTL(cfg.TTL),
	}
	return NewCookie(provider, cookies, append(configOpts, opts...)...)
}

// NewReadOnlyFromConfig creates the restricted transport from configuration.
func NewReadOnlyFromConfig(cfg Config, provider *secrets.Provider, opts ...ReadOnlyOption) *ReadOnly {
	configOpts := []ReadOnlyOption{
		WithReadOnlyCookieName(cfg.CookieName),
	}
	return NewReadOnly(provider, append(configOpts, opts...)...)
}
