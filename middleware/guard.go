package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/gatekit/core/logger"
	"github.com/dmitrymomot/gatekit/core/session"
)

type sessionKey struct{}

// SessionLoader is the accessor capability the guard needs: open the
// request's session or report its absence. Both transport profiles satisfy
// it; the guard itself only ever requires the restricted one.
type SessionLoader interface {
	Load(r *http.Request) (session.Record, error)
}

const (
	// DefaultLoginPath is the login entry point unauthenticated requests
	// are redirected to.
	DefaultLoginPath = "/api/auth/login"

	// DefaultReturnParam carries the originally requested path on the
	// redirect so the login flow can send the user back.
	DefaultReturnParam = "returnTo"
)

// GuardConfig configures the route guard middleware.
type GuardConfig struct {
	// Sessions answers whether the request carries an authenticated session.
	Sessions SessionLoader
	// Patterns designate protected areas as path prefixes with an optional
	// "/*" any-sub-path wildcard, e.g. "/protected/*" or "/admin".
	// Requests matching no pattern bypass the guard entirely.
	Patterns []string
	// LoginPath is the redirect target for unauthenticated requests
	// (default: DefaultLoginPath).
	LoginPath string
	// ReturnParam is the query parameter carrying the original request path
	// (default: DefaultReturnParam).
	ReturnParam string
	// RedirectStatus is the redirect status code (default: http.StatusFound).
	RedirectStatus int
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// Logger for structured logging (default: discard).
	Logger *slog.Logger
}

// Guard creates middleware that requires an authenticated session for the
// given path patterns and redirects everyone else to the login entry point.
//
// Usage:
//
//	ro := sessiontransport.NewReadOnly(secrets.Default())
//	mux.Handle("/", middleware.Guard(ro, "/protected/*")(appHandler))
func Guard(sessions SessionLoader, patterns ...string) func(http.Handler) http.Handler {
	return GuardWithConfig(GuardConfig{
		Sessions: sessions,
		Patterns: patterns,
	})
}

// GuardWithConfig creates the route guard with custom configuration.
//
// The decision is a single synchronous check per request and is never cached
// across requests: cookies can change between requests, so session state is
// re-evaluated every time. Any accessor error resolves to "require login" —
// uncertainty about session validity never resolves to "assume
// authenticated" — and guard-level errors never reach the client as
// anything but the redirect.
func GuardWithConfig(cfg GuardConfig) func(http.Handler) http.Handler {
	if cfg.Sessions == nil {
		panic("guard middleware: session loader is required")
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if cfg.ReturnParam == "" {
		cfg.ReturnParam = DefaultReturnParam
	}
	if cfg.RedirectStatus == 0 {
		cfg.RedirectStatus = http.StatusFound
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			if !matchAny(cfg.Patterns, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			rec, err := cfg.Sessions.Load(r)
			if err != nil || !rec.IsAuthenticated() {
				target := cfg.LoginPath + "?" + cfg.ReturnParam + "=" + url.QueryEscape(r.URL.Path)
				cfg.Logger.DebugContext(r.Context(), "guard: login required",
					logger.Component("guard"),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Redirect(target),
					logger.Error(err),
				)
				http.Redirect(w, r, target, cfg.RedirectStatus)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), rec)))
		})
	}
}

// matchAny reports whether path falls inside any protected pattern.
// "/area/*" covers "/area" and every sub-path; a bare prefix matches exactly.
func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}

func withSession(ctx context.Context, rec session.Record) context.Context {
	return context.WithValue(ctx, sessionKey{}, rec)
}

// SessionFromContext retrieves the session record placed in the request
// context by the guard or the CSRF middleware.
func SessionFromContext(ctx context.Context) (session.Record, bool) {
	rec, ok := ctx.Value(sessionKey{}).(session.Record)
	return rec, ok
}
