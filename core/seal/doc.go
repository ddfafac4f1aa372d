// Package seal turns session records into opaque, tamper-evident tokens and
// back.
//
// Records are JSON-encoded and encrypted with AES-256-GCM under a key derived
// from the shared secret via HKDF-SHA256. Multiple secrets may be configured;
// the first seals and all are tried on open, so secrets can rotate without
// invalidating live sessions.
//
// Two capability profiles consume the one format: the full Codec can seal and
// open, while the Opener interface exposes the open-only restricted profile
// for constrained runtimes. There is never a second implementation of the
// format itself.
//
//	codec, err := seal.New(secret)
//	token, err := codec.Seal(rec)
//	rec, err := codec.Open(token) // ErrOpenFailed on any tampering
package seal
