// Package secrets resolves the session-sealing secret from its runtime
// sources.
//
// Acquisition is deferred until first use because the secret's source may
// not be available at process start, and it happens exactly once: Provider
// guards the lookup with a single-initialization value, so concurrent first
// requests share one acquisition and every later read is lock-free.
//
// The default order of preference is a platform secret mount
// (/run/secrets/session_secret) followed by the SESSION_SECRET environment
// variable. When neither yields a value the error wraps ErrNotConfigured;
// there is no default secret and no silent fallback.
package secrets
