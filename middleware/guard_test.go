package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/core/cookie"
	"github.com/dmitrymomot/gatekit/core/secrets"
	"github.com/dmitrymomot/gatekit/core/session"
	"github.com/dmitrymomot/gatekit/core/sessiontransport"
	"github.com/dmitrymomot/gatekit/middleware"
)

const testSecret = "test-secret-key-32-characters!!!"

func staticProvider(secret string) *secrets.Provider {
	return secrets.NewProvider(secrets.SourceFunc(func() (string, error) {
		return secret, nil
	}))
}

func failingProvider() *secrets.Provider {
	return secrets.NewProvider(secrets.SourceFunc(func() (string, error) {
		return "", secrets.ErrNotConfigured
	}))
}

// sealSession returns a Cookie header value carrying the sealed record.
func sealSession(t *testing.T, rec session.Record) string {
	t.Helper()

	tr := sessiontransport.NewCookie(staticProvider(testSecret), cookie.New())
	w := httptest.NewRecorder()
	require.NoError(t, tr.Save(w, rec))
	return w.Header().Get("Set-Cookie")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuard_RedirectsUnauthenticated(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))
	h := middleware.Guard(ro, "/protected/*")(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/auth/login?returnTo=%2Fprotected%2Fdashboard", w.Header().Get("Location"))
}

func TestGuard_NonProtectedAlwaysContinues(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))
	h := middleware.Guard(ro, "/protected/*")(okHandler())

	for _, path := range []string{"/", "/public", "/protectedish", "/api/auth/login"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "path %s must bypass the guard", path)
	}
}

func TestGuard_AuthenticatedContinues(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))

	var seen session.Record
	h := middleware.Guard(ro, "/protected/*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := session.New(session.Identity{Subject: "u-42"}, time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/protected/dashboard", nil)
	r.Header.Set("Cookie", sealSession(t, rec))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen.Identity)
	assert.Equal(t, "u-42", seen.Identity.Subject)
}

func TestGuard_MetadataOnlySessionIsNotAuthenticated(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))
	h := middleware.Guard(ro, "/protected/*")(okHandler())

	rec := session.Record{Metadata: map[string]string{"theme": "dark"}}
	r := httptest.NewRequest(http.MethodGet, "/protected/dashboard", nil)
	r.Header.Set("Cookie", sealSession(t, rec))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestGuard_FailsClosedOnAccessorError(t *testing.T) {
	t.Parallel()

	// A misconfigured secret source makes every check uncertain; the guard
	// must resolve uncertainty to "require login", never to "authenticated".
	ro := sessiontransport.NewReadOnly(failingProvider())
	h := middleware.Guard(ro, "/protected/*")(okHandler())

	rec := session.New(session.Identity{Subject: "u-42"}, time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/protected/dashboard", nil)
	r.Header.Set("Cookie", sealSession(t, rec))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/api/auth/login")
}

func TestGuard_ReturnPathIncludesSubPaths(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))
	h := middleware.Guard(ro, "/protected/*")(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected/reports/2026/q3", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/auth/login?returnTo=%2Fprotected%2Freports%2F2026%2Fq3", w.Header().Get("Location"))
}

func TestGuard_PatternMatching(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))
	h := middleware.GuardWithConfig(middleware.GuardConfig{
		Sessions: ro,
		Patterns: []string{"/admin", "/protected/*"},
	})(okHandler())

	tests := []struct {
		path    string
		guarded bool
	}{
		{"/admin", true},
		{"/admin/users", false}, // bare prefix matches exactly
		{"/protected", true},    // wildcard covers the prefix itself
		{"/protected/a", true},
		{"/protected/a/b", true},
		{"/protectedx", false},
		{"/other", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if tt.guarded {
				assert.Equal(t, http.StatusFound, w.Code)
			} else {
				assert.Equal(t, http.StatusOK, w.Code)
			}
		})
	}
}

func TestGuard_CustomConfig(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))
	h := middleware.GuardWithConfig(middleware.GuardConfig{
		Sessions:       ro,
		Patterns:       []string{"/members/*"},
		LoginPath:      "/signin",
		ReturnParam:    "next",
		RedirectStatus: http.StatusSeeOther,
	})(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members/area", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/signin?next=%2Fmembers%2Farea", w.Header().Get("Location"))
}

func TestGuard_Skip(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))
	h := middleware.GuardWithConfig(middleware.GuardConfig{
		Sessions: ro,
		Patterns: []string{"/protected/*"},
		Skip: func(r *http.Request) bool {
			return r.Header.Get("X-Health-Check") == "1"
		},
	})(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/protected/dashboard", nil)
	r.Header.Set("X-Health-Check", "1")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuard_NoDecisionCachingAcrossRequests(t *testing.T) {
	t.Parallel()

	ro := sessiontransport.NewReadOnly(staticProvider(testSecret))
	h := middleware.Guard(ro, "/protected/*")(okHandler())

	// Authenticated request passes.
	rec := session.New(session.Identity{Subject: "u-42"}, time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/protected/dashboard", nil)
	r.Header.Set("Cookie", sealSession(t, rec))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	// The very next request without the cookie is re-evaluated and denied.
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected/dashboard", nil))
	assert.Equal(t, http.StatusFound, w.Code)
}
