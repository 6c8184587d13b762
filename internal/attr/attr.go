// Package attr provides slog attribute helpers shared by all services.
package attr

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

// WithCorrelationID stores a correlation ID on the context so every log line
// emitted during one operation can be tied back to the triggering request.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFromContext returns the correlation ID, or "" if none was set.
func CorrelationIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return v
	}
	return ""
}

// ExtractCorrelationID returns a slog attribute for the context's correlation ID.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationIDFromContext(ctx))
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

func UUIDValue(key string, value uuid.UUID) slog.Attr {
	return slog.String(key, value.String())
}
