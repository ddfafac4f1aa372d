package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekit/core/csrf"
	"github.com/dmitrymomot/gatekit/core/logger"
	"github.com/dmitrymomot/gatekit/core/session"
	"github.com/dmitrymomot/gatekit/core/sessiontransport"
)

// SessionWriter is the accessor capability the CSRF middleware needs: load
// the session and merge metadata back into it. Only the full transport
// profile satisfies it.
type SessionWriter interface {
	SessionLoader
	Update(w http.ResponseWriter, r *http.Request, patch map[string]string) (session.Record, error)
}

// CSRFConfig configures the CSRF protection middleware.
type CSRFConfig struct {
	// Sessions reads and updates the session carrying the expected token.
	Sessions SessionWriter
	// FieldName is the form field carrying the submitted token
	// (default: csrf.FieldName).
	FieldName string
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(r *http.Request) bool
	// RejectHandler responds to failed validations (default: 403 Forbidden).
	// The rejected submission's handler never runs and the session is not
	// mutated.
	RejectHandler func(w http.ResponseWriter, r *http.Request, err error)
	// Logger for structured logging (default: discard).
	Logger *slog.Logger
}

// Protect creates middleware enforcing the CSRF token lifecycle.
//
// On safe methods (GET, HEAD, OPTIONS, TRACE) it lazily initializes the
// session's token so the first form render has one to embed; initialization
// is idempotent and a no-op when a token already exists.
//
// On state-mutating methods it validates the submitted form field against
// the session's expected token in constant time, rejects mismatches without
// running the handler or touching the session, and on success rotates the
// token in the same response write — making every token single-use.
func Protect(sessions SessionWriter) func(http.Handler) http.Handler {
	return ProtectWithConfig(CSRFConfig{Sessions: sessions})
}

// ProtectWithConfig creates the CSRF middleware with custom configuration.
func ProtectWithConfig(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.Sessions == nil {
		panic("csrf middleware: session writer is required")
	}
	if cfg.FieldName == "" {
		cfg.FieldName = csrf.FieldName
	}
	if cfg.RejectHandler == nil {
		cfg.RejectHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "invalid csrf token", http.StatusForbidden)
		}
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

			if isSafeMethod(r.Method) {
				cfg.ensureToken(w, r, next)
				return
			}

			cfg.validateAndRotate(w, r, next)
		})
	}
}

// ensureToken lazily initializes the token for authenticated sessions so
// form renders can embed it.
func (cfg CSRFConfig) ensureToken(w http.ResponseWriter, r *http.Request, next http.Handler) {
	rec, err := cfg.Sessions.Load(r)
	if err != nil {
		// No session to protect; configuration failures still abort.
		if isConfigurationError(err) {
			cfg.Logger.ErrorContext(r.Context(), "csrf: session accessor unavailable",
				logger.Component("csrf"), logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
		return
	}

	if rec.IsAuthenticated() {
		token, created, err := csrf.Ensure(&rec)
		if err != nil {
			cfg.Logger.ErrorContext(r.Context(), "csrf: token initialization failed",
				logger.Component("csrf"), logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if created {
			if rec, err = cfg.Sessions.Update(w, r, map[string]string{csrf.MetadataKey: token}); err != nil {
				cfg.Logger.ErrorContext(r.Context(), "csrf: token initialization failed",
					logger.Component("csrf"), logger.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}
	}

	next.ServeHTTP(w, r.WithContext(withSession(r.Context(), rec)))
}

// validateAndRotate runs the validate-then-rotate protocol for a mutating
// submission: read expected, compare in constant time, rotate on success,
// reject without touching the session on failure.
func (cfg CSRFConfig) validateAndRotate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	rec, err := cfg.Sessions.Load(r)
	if err != nil && isConfigurationError(err) {
		cfg.Logger.ErrorContext(r.Context(), "csrf: session accessor unavailable",
			logger.Component("csrf"), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	expected, _ := csrf.Token(rec)
	submitted := r.PostFormValue(cfg.FieldName)

	if !csrf.Validate(submitted, expected) {
		cfg.Logger.WarnContext(r.Context(), "csrf: submission rejected",
			logger.Component("csrf"),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.SessionID(sessionID(rec)),
		)
		cfg.RejectHandler(w, r, csrf.ErrTokenInvalid)
		return
	}

	// Successful use invalidates the token: rotate before the mutation so
	// the replacement rides the same response as the handler's changes.
	token, err := csrf.Generate()
	if err != nil {
		cfg.Logger.ErrorContext(r.Context(), "csrf: token rotation failed",
			logger.Component("csrf"), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rec, err = cfg.Sessions.Update(w, r, map[string]string{csrf.MetadataKey: token})
	if err != nil {
		cfg.Logger.ErrorContext(r.Context(), "csrf: token rotation failed",
			logger.Component("csrf"), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	next.ServeHTTP(w, r.WithContext(withSession(r.Context(), rec)))
}

// CSRFToken returns the session's active token from the request context,
// for embedding into rendered forms.
func CSRFToken(ctx context.Context) string {
	rec, ok := SessionFromContext(ctx)
	if !ok {
		return ""
	}
	token, _ := csrf.Token(rec)
	return token
}

// isConfigurationError separates "no session" (expected, recoverable) from
// accessor failures like a missing sealing secret, which must abort the
// operation rather than degrade.
func isConfigurationError(err error) bool {
	return err != nil && !errors.Is(err, sessiontransport.ErrNoSession)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func sessionID(rec session.Record) string {
	if rec.ID == uuid.Nil {
		return ""
	}
	return rec.ID.String()
}
