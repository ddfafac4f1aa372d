package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

const (
	// DefaultEnvVar names the environment variable holding the sealing secret.
	DefaultEnvVar = "SESSION_SECRET"

	// DefaultFile is the conventional runtime secret mount path.
	DefaultFile = "/run/secrets/session_secret"
)

// Source yields the sealing secret from a single location. A source that has
// nothing to offer returns an error wrapping ErrNotConfigured.
type Source interface {
	Lookup() (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (string, error)

// Lookup implements Source.
func (f SourceFunc) Lookup() (string, error) { return f() }

// Env sources the secret from a process environment variable.
func Env(name string) Source {
	return SourceFunc(func() (string, error) {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return "", fmt.Errorf("%w: environment variable %s is not set", ErrNotConfigured, name)
		}
		return v, nil
	})
}

// File sources the secret from a platform-provided secret mount.
// Surrounding whitespace is trimmed, matching how orchestrators write
// single-value secret files.
func File(path string) Source {
	return SourceFunc(func() (string, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: secret file %s: %v", ErrNotConfigured, path, err)
		}
		v := strings.TrimSpace(string(b))
		if v == "" {
			return "", fmt.Errorf("%w: secret file %s is empty", ErrNotConfigured, path)
		}
		return v, nil
	})
}

// Chain tries sources in order and returns the first secret found.
// When every source misses, the joined error wraps ErrNotConfigured so
// callers can detect the fatal misconfiguration with errors.Is.
func Chain(sources ...Source) Source {
	return SourceFunc(func() (string, error) {
		var errs []error
		for _, src := range sources {
			v, err := src.Lookup()
			if err == nil {
				return v, nil
			}
			errs = append(errs, err)
		}
		if len(errs) == 0 {
			return "", ErrNotConfigured
		}
		return "", errors.Join(errs...)
	})
}

// Provider acquires the secret exactly once per process lifetime, on first
// use rather than at startup, and caches the outcome. Concurrent first reads
// collapse into a single acquisition; a failed acquisition is cached too,
// since retrying without fixing configuration cannot succeed.
type Provider struct {
	load func() (string, error)
}

// NewProvider wraps src with once-only lazy acquisition.
func NewProvider(src Source) *Provider {
	return &Provider{load: sync.OnceValues(src.Lookup)}
}

// Default resolves the secret from the runtime secret mount first, then the
// process environment. There is no fallback secret.
func Default() *Provider {
	return NewProvider(Chain(File(DefaultFile), Env(DefaultEnvVar)))
}

// Secret returns the cached secret, acquiring it on first call.
func (p *Provider) Secret() (string, error) {
	return p.load()
}
