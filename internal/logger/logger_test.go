package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		level   slog.Level
		enabled bool
	}{
		{"", slog.LevelInfo, false},
		{"off", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
	}
	for _, tt := range tests {
		level, enabled, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.level, level, tt.in)
		assert.Equal(t, tt.enabled, enabled, tt.in)
	}

	_, _, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestInitJSON(t *testing.T) {
	t.Cleanup(func() { Init(Options{}) })

	var buf bytes.Buffer
	Init(Options{Enabled: true, Level: slog.LevelWarn, JSON: true, Writer: &buf})

	Info("dropped")
	Warn("pool exhausted", "pool", "2k")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "pool exhausted", rec["msg"])
	assert.Equal(t, "2k", rec["pool"])
}

func TestInitDisabled(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Enabled: false, Writer: &buf})
	Error("nothing")
	assert.Zero(t, buf.Len())
}
