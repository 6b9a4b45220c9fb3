// Package trace attaches an interaction ID to a context so every log line
// written while answering one question can be correlated.
package trace

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type traceKey struct{}

// GenerateID returns a new interaction ID ("q_" + UUIDv4 without dashes).
func GenerateID() string {
	id := uuid.New()
	buf := make([]byte, 0, 34)
	buf = append(buf, 'q', '_')
	for _, c := range id.String() {
		if c != '-' {
			buf = append(buf, byte(c))
		}
	}
	return string(buf)
}

// WithTraceID returns a child context carrying id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// FromContext returns the trace ID stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(traceKey{}).(string); ok {
		return v
	}
	return ""
}

// Logger returns base (or the default logger) annotated with the trace ID
// from ctx when one is present.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if id := FromContext(ctx); id != "" {
		return base.With("trace_id", id)
	}
	return base
}
