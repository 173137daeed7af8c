package logtrace

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	// CorrelationIDKey carries the run or request id through the context.
	CorrelationIDKey contextKey = "correlation_id"
	// OriginKey names the phase that emitted a log line.
	OriginKey contextKey = "origin"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Setup configures the package logger. env "dev" selects a human readable
// console encoder; anything else emits JSON. Logs go to stderr so that stdout
// stays reserved for command output.
func Setup(service, env string, level slog.Level) {
	var cfg zap.Config
	if strings.EqualFold(env, "dev") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		l = zap.NewNop()
	}
	SetLogger(l.With(zap.String("service", service)))
}

// SetLogger replaces the package logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.RLock()
	l := logger
	mu.RUnlock()
	_ = l.Sync()
}

// ParseLevel maps a textual level to slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// CtxWithCorrelationID stores a correlation id in the context.
func CtxWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// CtxWithOrigin stores the log origin in the context.
func CtxWithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, OriginKey, origin)
}

// CorrelationIDFromContext returns the correlation id, or "unknown".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// OriginFromContext returns the log origin, or "" if none was set.
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	origin, _ := ctx.Value(OriginKey).(string)
	return origin
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.DebugLevel, message, fields)
}

// Info logs a message at info level.
func Info(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.InfoLevel, message, fields)
}

// Warn logs a message at warning level.
func Warn(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.WarnLevel, message, fields)
}

// Error logs a message at error level.
func Error(ctx context.Context, message string, fields Fields) {
	log(ctx, zapcore.ErrorLevel, message, fields)
}

func log(ctx context.Context, level zapcore.Level, message string, fields Fields) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ce := l.Check(level, message)
	if ce == nil {
		return
	}
	ce.Write(zapFields(ctx, fields)...)
}

// zapFields converts Fields to zap fields in key order, prefixed with the
// correlation id and origin from ctx.
func zapFields(ctx context.Context, fields Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+2)
	out = append(out, zap.String(FieldCorrelationID, CorrelationIDFromContext(ctx)))
	if origin := OriginFromContext(ctx); origin != "" {
		out = append(out, zap.String(FieldOrigin, origin))
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err, ok := fields[k].(error); ok {
			out = append(out, zap.String(k, err.Error()))
			continue
		}
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
