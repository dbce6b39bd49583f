// Package logging defines the structured-logging contract used throughout
// authvault. Components receive a Logger instead of a concrete backend so
// handlers and services stay testable.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are
// key–value pairs:
//
//	log.Info(ctx, "user registered", "email", email)
type Logger interface {
	// Debug logs fine-grained diagnostic detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs an unusual but non-fatal condition.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure. Internal causes that must not reach callers
	// are recorded here and nowhere else.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key–value pairs.
	With(args ...any) Logger
}
