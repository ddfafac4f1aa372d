package session

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Record is the unit of authenticated state. It is carried by the client as
// a sealed token; there is no server-side copy to look up or delete.
type Record struct {
	// ID is a stable identifier for log correlation. It never carries
	// identity information on its own.
	ID uuid.UUID `json:"id"`

	// Identity holds the verified attributes produced by the identity
	// exchange. It is nil for anonymous sessions and is never set by
	// application code.
	Identity *Identity `json:"identity,omitempty"`

	// Metadata is an open string-keyed bag fully mutable by application
	// code. Keys not named by a Merge patch round-trip unchanged.
	Metadata map[string]string `json:"metadata,omitempty"`

	// ExpiresAt bounds the record's validity. The zero value means the
	// record lives until the client discards the carrying token.
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Identity is the set of verified attributes established by the identity
// exchange. Immutable once set.
type Identity struct {
	Subject string   `json:"sub"`
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	Groups  []string `json:"groups,omitempty"`
}

// New creates an authenticated record for the given identity.
// A non-positive ttl leaves ExpiresAt zero (token lives until discarded).
func New(identity Identity, ttl time.Duration) Record {
	rec := Record{
		ID:       uuid.New(),
		Identity: &identity,
	}
	if ttl > 0 {
		rec.ExpiresAt = time.Now().Add(ttl)
	}
	return rec
}

// IsAuthenticated reports whether the record carries a verified identity.
// A record with metadata but no identity is "no session" for authorization.
func (r Record) IsAuthenticated() bool {
	return r.Identity != nil
}

// IsExpired reports whether the record has outlived its expiry.
// Records without an expiry never expire on the server side.
func (r Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// Merge folds patch into the record's metadata, preserving keys the patch
// does not name. A nil or empty patch is a no-op.
func (r *Record) Merge(patch map[string]string) {
	if len(patch) == 0 {
		return
	}
	if r.Metadata == nil {
		r.Metadata = make(map[string]string, len(patch))
	}
	maps.Copy(r.Metadata, patch)
}

// Value returns the metadata value stored under key.
func (r Record) Value(key string) (string, bool) {
	v, ok := r.Metadata[key]
	return v, ok
}

// SetValue stores a single metadata value, allocating the map if needed.
func (r *Record) SetValue(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string, 1)
	}
	r.Metadata[key] = value
}
