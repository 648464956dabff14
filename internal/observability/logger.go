// Package observability provides structured logging for auratheme.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jmylchreest/auratheme/internal/config"
	"github.com/m-mizutani/masq"
)

// LevelTrace sits below debug for per-field persistence chatter.
const LevelTrace = slog.Level(-8)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"
	loggerKey    contextKey = "logger"
)

var (
	// globalLevel is shared by every logger built here so the level can be
	// changed at runtime.
	globalLevel    = new(slog.LevelVar)
	requestLogging atomic.Bool
)

// sensitiveKeys are attribute names whose values are never written.
var sensitiveKeys = map[string]bool{
	"password":   true,
	"secret":     true,
	"token":      true,
	"apikey":     true,
	"api_key":    true,
	"credential": true,
	"dsn":        true,
}

var sensitiveQueryParam = regexp.MustCompile(`(?i)([?&](?:password|secret|token|apikey|api_key|credential)=)[^&#\s]*`)

// NewLogger creates a new slog.Logger writing to stdout.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	return NewLoggerWithWriter(cfg, os.Stdout)
}

// NewLoggerWithWriter creates a new slog.Logger that writes to w. The level is
// taken from cfg and stored globally, see SetLogLevel.
func NewLoggerWithWriter(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	globalLevel.Set(parseLevel(cfg.Level))

	redact := masq.New(
		masq.WithCensor(func(fieldName string, _ any, _ string) bool {
			return sensitiveKeys[strings.ToLower(fieldName)]
		}),
	)

	opts := &slog.HandlerOptions{
		Level:     globalLevel,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch a.Key {
				case slog.TimeKey:
					if t, ok := a.Value.Any().(time.Time); ok && cfg.TimeFormat != "" {
						return slog.String(slog.TimeKey, t.Format(cfg.TimeFormat))
					}
					return a
				case slog.LevelKey:
					if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
						return slog.String(slog.LevelKey, "TRACE")
					}
					return a
				case slog.MessageKey, slog.SourceKey:
					return a
				}
			}

			if a.Value.Kind() == slog.KindString {
				s := a.Value.String()
				if strings.Contains(s, "=") {
					a = slog.String(a.Key, sensitiveQueryParam.ReplaceAllString(s, "${1}"+masq.DefaultRedactMessage))
				}
			}
			if sensitiveKeys[strings.ToLower(a.Key)] {
				return redact(groups, a)
			}
			return a
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLogLevel changes the level of every logger created by this package.
func SetLogLevel(level string) {
	globalLevel.Set(parseLevel(level))
}

// GetLogLevel returns the current level name in lower case.
func GetLogLevel() string {
	lvl := globalLevel.Level()
	if lvl <= LevelTrace {
		return "trace"
	}
	return strings.ToLower(lvl.String())
}

// SetRequestLogging toggles logging of successful HTTP requests.
func SetRequestLogging(enabled bool) {
	requestLogging.Store(enabled)
}

// IsRequestLoggingEnabled reports whether successful HTTP requests are logged.
func IsRequestLoggingEnabled() bool {
	return requestLogging.Load()
}

// WithRequestID adds a request ID to the logger.
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With(slog.String("request_id", requestID))
}

// WithComponent adds a component name to the logger for identifying the source.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// WithError adds an error to the logger attributes.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}

// LoggerFromContext extracts a logger from the context.
// If no logger is found, returns the default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ContextWithLogger adds a logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// RequestIDFromContext extracts a request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// SetDefault sets the provided logger as the default slog logger.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// TimedOperationWithError logs the start and end of an operation. errPtr is
// read when the returned function runs, so errors assigned later are seen.
//
//nolint:gocritic // errPtr must be a pointer to capture errors set after this call
func TimedOperationWithError(ctx context.Context, logger *slog.Logger, operation string, errPtr *error) func() {
	start := time.Now()
	logger.DebugContext(ctx, "operation started", slog.String("operation", operation))

	return func() {
		duration := time.Since(start)
		if errPtr != nil && *errPtr != nil {
			logger.ErrorContext(ctx, "operation failed",
				slog.String("operation", operation),
				slog.Duration("duration", duration),
				slog.String("error", (*errPtr).Error()),
			)
			return
		}
		logger.InfoContext(ctx, "operation completed",
			slog.String("operation", operation),
			slog.Duration("duration", duration),
		)
	}
}
