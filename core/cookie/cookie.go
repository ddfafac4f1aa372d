package cookie

import (
	"errors"
	"net/http"
	"time"
)

// MaxCookieSize is the maximum size for a serialized cookie header (4KB).
const MaxCookieSize = 4096

// Manager handles the HTTP cookie that carries the sealed session token.
// It deals only in transport attributes; sealing and opening of the value
// belong to core/seal.
type Manager struct {
	defaults Options
	maxSize  int
}

// ManagerOption configures the Manager itself rather than individual cookies.
type ManagerOption func(*Manager)

// WithMaxSize overrides the maximum serialized cookie size.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// New creates a cookie manager with secure defaults: path "/", HttpOnly,
// SameSite Lax.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		defaults: applyOptions(defaults, opts),
		maxSize:  MaxCookieSize,
	}
}

// NewWithOptions creates a cookie manager with additional manager options.
func NewWithOptions(cookieOpts []Option, managerOpts ...ManagerOption) *Manager {
	m := New(cookieOpts...)
	for _, opt := range managerOpts {
		opt(m)
	}
	return m
}

// Set attaches a cookie to the response.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	header := cookie.String()
	if len(header) > m.maxSize {
		return ErrCookieTooLarge{
			Name: name,
			Size: len(header),
			Max:  m.maxSize,
		}
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get retrieves a cookie value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete instructs the client to discard a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}
