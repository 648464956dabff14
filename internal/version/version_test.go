package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBuild(t *testing.T, v, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = v, commit, date
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, ApplicationName, info.Name)
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.Platform, runtime.GOOS)
	assert.Contains(t, info.Platform, runtime.GOARCH)
}

func TestString(t *testing.T) {
	setBuild(t, "1.0.0", "unknown", "unknown")
	assert.Contains(t, String(), "auratheme version 1.0.0")

	setBuild(t, "1.0.0", "abc123def456789", "2026-01-15T10:30:00Z")
	s := String()
	assert.Contains(t, s, "commit: abc123de")
	assert.Contains(t, s, "2026-01-15")
}

func TestShort(t *testing.T) {
	setBuild(t, "1.0.0", "unknown", "unknown")
	assert.Equal(t, "1.0.0", Short())

	setBuild(t, "1.0.0", "abc123def456789", "unknown")
	assert.Equal(t, "1.0.0 (abc123de)", Short())
}

func TestJSON(t *testing.T) {
	setBuild(t, "1.2.3", "abc123def456789", "2026-01-15T10:30:00Z")

	var info Info
	require.NoError(t, json.Unmarshal([]byte(JSON()), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123def456789", info.Commit)
	assert.Equal(t, ApplicationName, info.Name)
}

func TestIsDev(t *testing.T) {
	tests := []struct {
		version  string
		expected bool
	}{
		{"dev", true},
		{"1.0.1-SNAPSHOT.abc1234", true},
		{"1.0.0", false},
		{"1.2.3-alpha.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			setBuild(t, tt.version, "unknown", "unknown")
			assert.Equal(t, tt.expected, IsDev())
		})
	}
}
