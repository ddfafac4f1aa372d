// Package logger configures log/slog for the gateway and provides nil-safe
// attribute helpers for its common log fields.
//
// Secrets never appear in log output: no helper exists for the sealing
// secret or any fragment of it, and none should be added.
package logger
