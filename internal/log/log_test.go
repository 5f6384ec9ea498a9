package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetupLoggerSplitsStreams(t *testing.T) {
	var out, errs bytes.Buffer
	logger, closers, err := SetupLogger(Options{Level: "debug", Console: &out, Errors: &errs})
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.Log(context.Background(), LevelTrace, "hidden")
	logger.Debug("tick", "applied", 3)
	logger.Error("device error", "message", "disconnected")

	assert.Contains(t, out.String(), "msg=tick applied=3")
	assert.NotContains(t, out.String(), "hidden")
	assert.NotContains(t, out.String(), "device error")
	assert.Contains(t, errs.String(), "message=disconnected")
	assert.NotContains(t, errs.String(), "tick")
}

func TestSetupLoggerFile(t *testing.T) {
	var out, errs bytes.Buffer
	path := filepath.Join(t.TempDir(), "padscope.log")
	logger, closers, err := SetupLogger(Options{Level: "trace", File: path, Console: &out, Errors: &errs})
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.With("component", "netpad").Log(context.Background(), LevelTrace, "frame")
	logger.Warn("low battery")
	require.NoError(t, closers[0].Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "component=netpad")
	assert.Contains(t, string(data), "low battery")
	assert.Contains(t, out.String(), "low battery")

	_, _, err = SetupLogger(Options{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf).(*rawLogger)
	r.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	r.Frame("127.0.0.1:5000", true, []byte{0x00, 0x7f, 0xab})
	r.Frame("127.0.0.1:5000", false, nil)
	r.Frame("127.0.0.1:5000", false, []byte{0x10})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2024/05/01 12:00:00.000 <- 127.0.0.1:5000 3 bytes: 00 7f ab", lines[0])
	assert.Equal(t, "2024/05/01 12:00:00.000 -> 127.0.0.1:5000 1 bytes: 10", lines[1])

	NewRaw(nil).Frame("x", true, []byte{1})
}
