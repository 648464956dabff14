package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/jmylchreest/auratheme/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level string) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLoggerWithWriter(config.LoggingConfig{Level: level, Format: "json"}, &buf), &buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	logger, buf := newTestLogger("info")
	logger.Info("test message", slog.String("key", "value"))

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, `"key":"value"`)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &parsed))
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "text"}, &buf)
	logger.Info("test message", slog.String("key", "value"))

	assert.Contains(t, buf.String(), "key=value")
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    slog.Level
		shouldLog   bool
	}{
		{"debug logs at debug level", "debug", slog.LevelDebug, true},
		{"debug hidden at info level", "info", slog.LevelDebug, false},
		{"info logs at info level", "info", slog.LevelInfo, true},
		{"info hidden at warn level", "warn", slog.LevelInfo, false},
		{"error logs at error level", "error", slog.LevelError, true},
		{"trace logs at trace level", "trace", LevelTrace, true},
		{"trace hidden at debug level", "debug", LevelTrace, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(tt.configLevel)
			logger.Log(context.Background(), tt.logLevel, "level test")

			if tt.shouldLog {
				assert.Contains(t, buf.String(), "level test")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestNewLogger_CustomTimeFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(config.LoggingConfig{Level: "info", Format: "json", TimeFormat: "2006"}, &buf)
	logger.Info("time test")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Len(t, parsed["time"], 4)
}

func TestTraceLevelDisplay(t *testing.T) {
	logger, buf := newTestLogger("trace")
	logger.Log(context.Background(), LevelTrace, "trace message")

	assert.Contains(t, buf.String(), `"level":"TRACE"`)
	assert.NotContains(t, buf.String(), "DEBUG-4")
}

func TestSetLogLevel_AppliesToExistingLoggers(t *testing.T) {
	logger, buf := newTestLogger("info")
	t.Cleanup(func() { SetLogLevel("info") })

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	SetLogLevel("debug")
	assert.Equal(t, "debug", GetLogLevel())

	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	SetLogLevel("trace")
	assert.Equal(t, "trace", GetLogLevel())
}

func TestRequestLoggingToggle(t *testing.T) {
	t.Cleanup(func() { SetRequestLogging(false) })

	SetRequestLogging(true)
	assert.True(t, IsRequestLoggingEnabled())
	SetRequestLogging(false)
	assert.False(t, IsRequestLoggingEnabled())
}

func TestSensitiveDataRedaction(t *testing.T) {
	tests := []struct {
		fieldName     string
		sensitiveData string
	}{
		{"password", "secret123"},
		{"Password", "MyP@ssw0rd"},
		{"token", "jwt-token-abc"},
		{"api_key", "api-key-value"},
		{"dsn", "postgres://theme:hunter2@db/auratheme"},
	}

	for _, tt := range tests {
		t.Run(tt.fieldName, func(t *testing.T) {
			logger, buf := newTestLogger("info")
			logger.Info("test message", slog.String(tt.fieldName, tt.sensitiveData))

			assert.NotContains(t, buf.String(), tt.sensitiveData)
			assert.Contains(t, buf.String(), "[REDACTED]")
		})
	}
}

func TestSensitiveDataRedaction_Group(t *testing.T) {
	logger, buf := newTestLogger("info")
	logger.Info("test with group",
		slog.Group("database",
			slog.String("driver", "postgres"),
			slog.String("dsn", "host=db password=hunter2"),
		),
	)

	assert.Contains(t, buf.String(), "postgres")
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestURLParameterRedaction(t *testing.T) {
	logger, buf := newTestLogger("info")
	logger.Info("request", slog.String("url", "http://device.local/save?user=admin&token=abc123&page=1"))

	output := buf.String()
	assert.NotContains(t, output, "abc123")
	assert.Contains(t, output, "token=[REDACTED]")
	assert.Contains(t, output, "user=admin")
	assert.Contains(t, output, "page=1")
}

func TestNonSensitiveDataNotRedacted(t *testing.T) {
	logger, buf := newTestLogger("info")
	logger.Info("theme saved",
		slog.String("field", "bg_top"),
		slog.String("value", "4C8CB9"),
		slog.Int("count", 10),
	)

	assert.Contains(t, buf.String(), "4C8CB9")
	assert.NotContains(t, buf.String(), "[REDACTED]")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Equal(t, slog.Default(), LoggerFromContext(ctx))

	logger, _ := newTestLogger("info")
	ctx = ContextWithLogger(ContextWithRequestID(ctx, "req-1"), logger)
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Same(t, logger, LoggerFromContext(ctx))
}

func TestChainedWith(t *testing.T) {
	logger, buf := newTestLogger("info")

	WithComponent(WithRequestID(WithError(logger, errors.New("boom")), "req-chain"), "store").Info("chained")

	output := buf.String()
	assert.Contains(t, output, `"error":"boom"`)
	assert.Contains(t, output, `"request_id":"req-chain"`)
	assert.Contains(t, output, `"component":"store"`)
}

func TestWithError_Nil(t *testing.T) {
	logger, _ := newTestLogger("info")
	assert.Same(t, logger, WithError(logger, nil))
}

func TestTimedOperationWithError(t *testing.T) {
	logger, buf := newTestLogger("info")

	var err error
	done := TimedOperationWithError(context.Background(), logger, "save_theme", &err)
	err = errors.New("disk full")
	done()

	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "disk full")

	buf.Reset()
	err = nil
	TimedOperationWithError(context.Background(), logger, "save_theme", &err)()
	assert.Contains(t, buf.String(), "operation completed")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, parseLevel("TRACE"))
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
