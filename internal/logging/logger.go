// Package logging defines a minimal structured-logging interface used across
// the project, with slog and zap implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported backends for New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a JSON logger writing to w using the named backend.
func New(backend string, w io.Writer) (Logger, error) {
	switch backend {
	case "", BackendSlog:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil))), nil
	case BackendZap:
		return NewZapLoggerTo(w), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

type ctxKey struct{}

// WithRequestID returns a context whose log lines carry request_id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, if any.
func RequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

func contextArgs(ctx context.Context, args []any) []any {
	if id, ok := RequestID(ctx); ok {
		return append(args, "request_id", id)
	}
	return args
}
