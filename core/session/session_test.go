package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekit/core/session"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("authenticated record with ttl", func(t *testing.T) {
		t.Parallel()

		rec := session.New(session.Identity{Subject: "u-1", Email: "u@example.com"}, time.Hour)

		assert.NotEqual(t, uuid.Nil, rec.ID)
		require.NotNil(t, rec.Identity)
		assert.Equal(t, "u-1", rec.Identity.Subject)
		assert.True(t, rec.IsAuthenticated())
		assert.False(t, rec.IsExpired())
		assert.WithinDuration(t, time.Now().Add(time.Hour), rec.ExpiresAt, time.Minute)
	})

	t.Run("zero ttl leaves no expiry", func(t *testing.T) {
		t.Parallel()

		rec := session.New(session.Identity{Subject: "u-1"}, 0)
		assert.True(t, rec.ExpiresAt.IsZero())
		assert.False(t, rec.IsExpired())
	})
}

func TestRecord_IsAuthenticated(t *testing.T) {
	t.Parallel()

	t.Run("metadata alone is not a session", func(t *testing.T) {
		t.Parallel()

		rec := session.Record{Metadata: map[string]string{"theme": "dark"}}
		assert.False(t, rec.IsAuthenticated())
	})

	t.Run("identity makes it authenticated", func(t *testing.T) {
		t.Parallel()

		rec := session.Record{Identity: &session.Identity{Subject: "u-1"}}
		assert.True(t, rec.IsAuthenticated())
	})
}

func TestRecord_IsExpired(t *testing.T) {
	t.Parallel()

	assert.True(t, session.Record{ExpiresAt: time.Now().Add(-time.Second)}.IsExpired())
	assert.False(t, session.Record{ExpiresAt: time.Now().Add(time.Minute)}.IsExpired())
	assert.False(t, session.Record{}.IsExpired())
}

func TestRecord_Merge(t *testing.T) {
	t.Parallel()

	t.Run("preserves unspecified keys", func(t *testing.T) {
		t.Parallel()

		rec := session.Record{Metadata: map[string]string{"keep": "me", "replace": "old"}}
		rec.Merge(map[string]string{"replace": "new", "added": "yes"})

		assert.Equal(t, map[string]string{
			"keep":    "me",
			"replace": "new",
			"added":   "yes",
		}, rec.Metadata)
	})

	t.Run("allocates on nil metadata", func(t *testing.T) {
		t.Parallel()

		var rec session.Record
		rec.Merge(map[string]string{"a": "1"})
		assert.Equal(t, "1", rec.Metadata["a"])
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		t.Parallel()

		rec := session.Record{Metadata: map[string]string{"a": "1"}}
		rec.Merge(nil)
		assert.Equal(t, map[string]string{"a": "1"}, rec.Metadata)
	})
}

func TestRecord_Values(t *testing.T) {
	t.Parallel()

	var rec session.Record

	_, ok := rec.Value("missing")
	assert.False(t, ok)

	rec.SetValue("csrfToken", "abc123")
	v, ok := rec.Value("csrfToken")
	require.True(t, ok)
	assert.Equal(t, "abc123", v)
}
