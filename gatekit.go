// Package gatekit assembles the session-gated access control chain from
// environment configuration: lazy secret acquisition, the cookie-carried
// sealed session, the route guard, and CSRF protection.
package gatekit

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/gatekit/core/config"
	"github.com/dmitrymomot/gatekit/core/cookie"
	"github.com/dmitrymomot/gatekit/core/identity"
	"github.com/dmitrymomot/gatekit/core/logger"
	"github.com/dmitrymomot/gatekit/core/secrets"
	"github.com/dmitrymomot/gatekit/core/sessiontransport"
	"github.com/dmitrymomot/gatekit/middleware"
)

// Config holds the guard-level knobs. Session, cookie, and logger settings
// come from their own packages' Config types.
type Config struct {
	Protected   []string `env:"GUARD_PROTECTED_PATHS" envSeparator:"," envDefault:"/protected/*"`
	LoginPath   string   `env:"GUARD_LOGIN_PATH" envDefault:"/api/auth/login"`
	ReturnParam string   `env:"GUARD_RETURN_PARAM" envDefault:"returnTo"`
}

// Gateway is the wired access-control stack.
type Gateway struct {
	// Sessions is the full-profile accessor for application handlers.
	Sessions *sessiontransport.Cookie
	// Edge is the restricted, open-only accessor the guard runs on.
	Edge *sessiontransport.ReadOnly
	// Logger is shared by the middleware chain.
	Logger *slog.Logger

	cfg Config
}

// Option customizes gateway assembly.
type Option func(*assembly)

type assembly struct {
	provider  *secrets.Provider
	exchanger identity.Exchanger
	log       *slog.Logger
}

// WithSecretProvider overrides the default secret sources.
func WithSecretProvider(p *secrets.Provider) Option {
	return func(a *assembly) { a.provider = p }
}

// WithExchanger sets the identity exchange collaborator.
func WithExchanger(ex identity.Exchanger) Option {
	return func(a *assembly) { a.exchanger = ex }
}

// WithLogger overrides the environment-configured logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *assembly) { a.log = log }
}

// New loads configuration from the environment and wires the gateway.
// The sealing secret itself is not touched here; acquisition stays deferred
// until the first request that needs it.
func New(opts ...Option) (*Gateway, error) {
	var a assembly
	for _, opt := range opts {
		opt(&a)
	}

	var guardCfg Config
	if err := config.Load(&guardCfg); err != nil {
		return nil, err
	}
	var cookieCfg cookie.Config
	if err := config.Load(&cookieCfg); err != nil {
		return nil, err
	}
	var sessionCfg sessiontransport.Config
	if err := config.Load(&sessionCfg); err != nil {
		return nil, err
	}

	if a.provider == nil {
		a.provider = secrets.Default()
	}
	if a.log == nil {
		var logCfg logger.Config
		if err := config.Load(&logCfg); err != nil {
			return nil, err
		}
		a.log = logger.New(logCfg)
	}

	cookies := cookie.NewFromConfig(cookieCfg)

	transportOpts := []sessiontransport.CookieOption{}
	if a.exchanger != nil {
		transportOpts = append(transportOpts, sessiontransport.WithExchanger(a.exchanger))
	}

	return &Gateway{
		Sessions: sessiontransport.NewCookieFromConfig(sessionCfg, a.provider, cookies, transportOpts...),
		Edge:     sessiontransport.NewReadOnlyFromConfig(sessionCfg, a.provider),
		Logger:   a.log,
		cfg:      guardCfg,
	}, nil
}

// Handler wraps next with the full chain: route guard outside, CSRF
// protection inside.
func (g *Gateway) Handler(next http.Handler) http.Handler {
	protected := middleware.ProtectWithConfig(middleware.CSRFConfig{
		Sessions: g.Sessions,
		Logger:   g.Logger,
	})(next)

	return middleware.GuardWithConfig(middleware.GuardConfig{
		Sessions:    g.Edge,
		Patterns:    g.cfg.Protected,
		LoginPath:   g.cfg.LoginPath,
		ReturnParam: g.cfg.ReturnParam,
		Logger:      g.Logger,
	})(protected)
}
