// Package logger builds zerolog loggers. Loggers are values passed to the
// components that need them; nothing here is process-wide.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"catalogapi/internal/config"
)

// New creates the root logger for the service.
func New(serviceName string, cfg config.LogConfig) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}
	return NewWithWriter(output, serviceName, cfg.Level)
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(w io.Writer, serviceName, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// ParseLevel maps a textual level to zerolog, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type requestIDKey struct{}

// ContextWithRequestID returns a copy of ctx carrying the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithContext returns a child of l carrying the request id and the trace and
// span ids found in ctx, if any.
func WithContext(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	rid := RequestIDFromContext(ctx)
	sc := trace.SpanFromContext(ctx).SpanContext()
	if rid == "" && !sc.IsValid() {
		return l
	}

	lc := l.With()
	if rid != "" {
		lc = lc.Str("request_id", rid)
	}
	if sc.IsValid() {
		lc = lc.Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}
	return lc.Logger()
}
