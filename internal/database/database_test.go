package database

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmylchreest/auratheme/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func memoryConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:          "sqlite",
		DSN:             ":memory:",
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		LogLevel:        "silent",
	}
}

func TestNew_SQLiteMemory(t *testing.T) {
	db, err := New(memoryConfig(), nil)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping(context.Background()))
	assert.Equal(t, "sqlite", db.Driver())
}

func TestNew_SQLiteFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "prefs.db")

	db, err := New(cfg, nil)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping(context.Background()))
}

func TestNew_InvalidDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Driver = "oracle"

	db, err := New(cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDB_Close(t *testing.T) {
	db, err := New(memoryConfig(), nil)
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logger.LogLevel
	}{
		{"silent", logger.Silent},
		{"error", logger.Error},
		{"warn", logger.Warn},
		{"info", logger.Info},
		{"bogus", logger.Warn},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, gormLogLevel(tt.input))
		})
	}
}

func TestSlogGormLogger_TraceError(t *testing.T) {
	var buf bytes.Buffer
	l := newGormLogger("error", slog.New(slog.NewJSONHandler(&buf, nil)))

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO preferences", 0
	}, assert.AnError)

	assert.Contains(t, buf.String(), "database error")
	assert.Contains(t, buf.String(), "INSERT INTO preferences")
}

func TestSlogGormLogger_SilentSkipsEverything(t *testing.T) {
	var buf bytes.Buffer
	l := newGormLogger("silent", slog.New(slog.NewJSONHandler(&buf, nil)))

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		t.Fatal("sql should not be rendered when silent")
		return "", 0
	}, assert.AnError)

	assert.Empty(t, buf.String())
}
