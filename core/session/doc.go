// Package session defines the session record carried by the client as a
// sealed token.
//
// A Record is authenticated only when its Identity is set by the identity
// exchange; application code mutates the open Metadata bag and never the
// identity. Records are sealed and opened by core/seal and moved over HTTP
// by core/sessiontransport.
//
// Usage:
//
//	rec := session.New(session.Identity{Subject: "u-42", Email: "a@b.c"}, 12*time.Hour)
//	rec.SetValue("theme", "dark")
//
//	if rec.IsAuthenticated() && !rec.IsExpired() {
//		// grant access
//	}
//
// Metadata updates use merge semantics so unrelated keys survive:
//
//	rec.Merge(map[string]string{"csrfToken": token})
package session
