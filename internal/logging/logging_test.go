package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogOutput swaps the package logger for one writing to a buffer.
func captureLogOutput(t *testing.T, level Level, format Format, f func()) string {
	t.Helper()
	old := Logger()
	t.Cleanup(func() { SetLogger(old) })

	var buf bytes.Buffer
	InitLogger(level, format, &buf)
	f()
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestInitLoggerLevel(t *testing.T) {
	out := captureLogOutput(t, LevelWarn, FormatText, func() {
		Debug("hidden")
		Info("hidden too")
		Warn("shown", "key", "value")
	})
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=value")
}

func TestInitLoggerJSON(t *testing.T) {
	out := captureLogOutput(t, LevelDebug, FormatJSON, func() {
		Error("boom", "ranges", 3)
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, float64(3), entry["ranges"])
	assert.NotEmpty(t, entry["time"])
}

func TestSetLogger(t *testing.T) {
	old := Logger()
	t.Cleanup(func() { SetLogger(old) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
