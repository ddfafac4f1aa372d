package cookie

import "net/http"

// Config provides environment-based configuration for the cookie manager.
// Name and attributes of the session carrier are configuration, not behavior.
type Config struct {
	Path     string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	MaxAge   int           `env:"SESSION_COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	HttpOnly bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite http.SameSite `env:"SESSION_COOKIE_SAME_SITE" envDefault:"2"` // SameSiteLaxMode
	MaxSize  int           `env:"SESSION_COOKIE_MAX_SIZE" envDefault:"4096"`
}

// NewFromConfig creates a Manager from configuration. User-provided options
// take precedence over config values.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := make([]Option, 0, 6)

	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	configOpts = append(configOpts,
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HttpOnly),
	)
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}

	configOpts = append(configOpts, opts...)

	m := New(configOpts...)
	if cfg.MaxSize > 0 {
		m.maxSize = cfg.MaxSize
	}
	return m
}
