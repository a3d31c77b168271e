// Package telemetry provides the structured logger used by cmd/cdvvsetctl
// and internal/kvstore. The core cdvvset package stays logger-free; this
// lives one layer up, in the embedding command and store code.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the log format (json, console).
	Format string
	// OutputPaths is the list of output paths (stdout, stderr, file paths).
	OutputPaths []string
	// ErrorOutputPaths is the list of error output paths.
	ErrorOutputPaths []string
}

// DefaultConfig returns the default logging configuration: info level,
// JSON encoding, stdout/stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// NewLogger builds a zap.Logger from cfg. A nil cfg falls back to
// DefaultConfig. Format "console" gets a human-readable development
// encoder; anything else gets the production JSON encoder.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}
	if zapConfig.Encoding != "console" {
		zapConfig.Encoding = "json"
	}

	return zapConfig.Build()
}

// WithTraceContext adds trace/span id fields to logger when ctx carries a
// recording span, so a log line can be correlated back to the span that
// produced it.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return logger
	}

	spanCtx := span.SpanContext()
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}

// StructuredLogger is a fluent wrapper carrying the cdvvset domain fields
// (replica id, key, dot) across a chain of operations.
type StructuredLogger struct {
	base   *zap.Logger
	fields []zap.Field
}

// NewStructuredLogger wraps base.
func NewStructuredLogger(base *zap.Logger) *StructuredLogger {
	return &StructuredLogger{base: base}
}

// WithContext returns the wrapped logger with trace context attached.
func (l *StructuredLogger) WithContext(ctx context.Context) *zap.Logger {
	return WithTraceContext(ctx, l.base.With(l.fields...))
}

// With returns a new StructuredLogger carrying additional fields.
func (l *StructuredLogger) With(fields ...zap.Field) *StructuredLogger {
	return &StructuredLogger{base: l.base, fields: append(append([]zap.Field{}, l.fields...), fields...)}
}

// WithKey adds the store key field.
func (l *StructuredLogger) WithKey(key string) *StructuredLogger {
	return l.With(zap.String("key", key))
}

// WithReplicaID adds the replica id field.
func (l *StructuredLogger) WithReplicaID(id string) *StructuredLogger {
	return l.With(zap.String("replica_id", id))
}

// WithDot adds a dot/counter field.
func (l *StructuredLogger) WithDot(dot uint64) *StructuredLogger {
	return l.With(zap.Uint64("dot", dot))
}

// WithError adds an error field.
func (l *StructuredLogger) WithError(err error) *StructuredLogger {
	return l.With(zap.Error(err))
}

// Common structured field constructors, matching the reference stack's
// free-function style.
var (
	Key       = func(key string) zap.Field { return zap.String("key", key) }
	ReplicaID = func(id string) zap.Field { return zap.String("replica_id", id) }
	Operation = func(op string) zap.Field { return zap.String("operation", op) }
	Outcome   = func(outcome string) zap.Field { return zap.String("outcome", outcome) }
)
