// Package logging builds the slog loggers used by the CLI and the views.
// The level is read from VIZLAB_LOG_LEVEL (DEBUG, INFO, WARN, ERROR); the
// default is INFO.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "VIZLAB_LOG_LEVEL"

// New returns a text logger writing to w at the environment level.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: LevelFromEnv()}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OpenFile returns a logger appending to <dir>/<name> and the file to close.
// Interactive views log here so the terminal stays clean.
func OpenFile(dir, name string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return New(f), f, nil
}

// LevelFromEnv parses EnvLevel.
func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLevel))
}

// ParseLevel maps a level name to a slog level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
