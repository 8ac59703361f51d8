package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_RespectsEnv(t *testing.T) {
	t.Setenv(EnvLevel, "WARN")
	var buf bytes.Buffer
	log := New(&buf)

	log.Info("hidden")
	log.Warn("merge discarded", "keep", "A")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at WARN")
	}
	if !strings.Contains(out, "merge discarded") || !strings.Contains(out, "keep=A") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	log, closer, err := OpenFile(dir, "vizlab.log")
	if err != nil {
		t.Fatal(err)
	}
	log.Error("texture fallback")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, "vizlab.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "texture fallback") {
		t.Errorf("log file missing record: %q", data)
	}
}
