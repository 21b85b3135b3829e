package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitializeAndLog(t *testing.T) {
	config := DefaultConfig()
	config.FileEnabled = true
	config.FilePath = filepath.Join(t.TempDir(), "test.log")
	Initialize(config)

	// The package-level helpers must not panic with any handler mix.
	Debug("debug message", "key", "value")
	Info("info message")
	Warning("warning message", "count", 3)
	Error("error message", "error", "synthetic")
}

func TestLogBeforeInitialize(t *testing.T) {
	saved := logger
	logger = nil
	defer func() { logger = saved }()

	Info("dropped without a logger")
}

func TestMultiHandlerEnabled(t *testing.T) {
	quiet := slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError})
	chatty := slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := newMultiHandler(quiet, chatty)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("multi handler disabled when one handler accepts the level")
	}
	solo := newMultiHandler(quiet)
	if solo.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("multi handler enabled when no handler accepts the level")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
