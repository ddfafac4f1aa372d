// Package middleware provides the request-time access control chain for
// net/http handlers.
//
// Guard runs ahead of protected handlers: requests whose path falls inside a
// configured pattern must carry an authenticated session or they are
// redirected to the login entry point with the original path in a returnTo
// parameter. The guard fails closed — an accessor error is treated exactly
// like an absent session — and re-evaluates on every request.
//
// Protect enforces the CSRF token lifecycle around state-mutating
// submissions: constant-time validation of the submitted hidden field
// against the session's token, rejection without side effects on mismatch,
// and single-use rotation on success.
//
// Typical wiring:
//
//	provider := secrets.Default()
//	sessions := sessiontransport.NewCookie(provider, cookie.New())
//	edge := sessiontransport.NewReadOnly(provider)
//
//	var handler http.Handler = mux
//	handler = middleware.Protect(sessions)(handler)
//	handler = middleware.Guard(edge, "/protected/*")(handler)
//
// Note that Protect reads the request form body to extract the submitted
// token; handlers keep access to the parsed values through r.FormValue.
package middleware
