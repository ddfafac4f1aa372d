// Package sessiontransport moves sealed session records over a single HTTP
// cookie.
//
// Two capability profiles share one token format and secret:
//
//   - Cookie is the full profile. It loads, updates (merge semantics),
//     clears, and mints sessions through the identity exchange.
//   - ReadOnly is the restricted profile for constrained runtimes. Its only
//     operation is Load; it is built from the seal.Opener capability and
//     cannot mint or reseal.
//
// Both acquire the sealing secret lazily on first use via core/secrets and
// cache it for the process lifetime. Session state is re-read from the
// request on every Load; nothing is cached across requests, since the cookie
// can change between them.
//
// Error contract: every client-side problem (no cookie, tampered token,
// wrong secret epoch, expired record) surfaces as ErrNoSession. A missing
// sealing secret surfaces as secrets.ErrNotConfigured and must abort the
// operation instead of degrading to "no session".
//
// Concurrent requests from one client are not serialized: two in-flight
// updates both reseal from their own view and the last Set-Cookie to land
// wins. Accepted tradeoff for a client-carried session.
package sessiontransport
