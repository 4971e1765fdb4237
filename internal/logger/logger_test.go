package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_EmptyLevelIsNoOp(t *testing.T) {
	l, err := New("")
	if err != nil {
		t.Fatalf("empty level should yield a no-op logger, got %v", err)
	}
	defer l.Close()

	// No file is opened; logging must still be safe.
	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("dropped")
	l.Error("dropped")

	if l.logFile != nil {
		t.Errorf("no-op logger should not open a file")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("verbose"); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("expected ErrInvalidLogLevel, got %v", err)
	}
}

func TestNew_WritesSessionFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	l, err := New("info")
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}

	l.Info("status refreshed", "sections", 3)
	l.Debug("below threshold")
	l.Close()

	path := filepath.Join(os.Getenv("XDG_STATE_HOME"), "gitu", fmt.Sprintf("gitu-%d.log", os.Getpid()))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "status refreshed") || !strings.Contains(out, "sections=3") {
		t.Errorf("info record should be written, got:\n%s", out)
	}
	if strings.Contains(out, "below threshold") {
		t.Errorf("debug record should be filtered at info level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if err != nil {
			t.Errorf("parseLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) should be %v, got %v", tt.in, tt.want, got)
		}
	}

	if _, err := parseLevel("loud"); err == nil {
		t.Errorf("unknown level should be rejected")
	}
}
