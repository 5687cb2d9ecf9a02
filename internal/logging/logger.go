package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/idilsaglam/sprint/internal/config"
)

// Logger appends structured records to the configured log file. The
// terminal belongs to the board and the interactive view, so nothing is
// logged to stdout or stderr.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New opens (or creates) the log file. An empty path yields a logger that
// drops everything; verbose lowers the level to debug.
func New(cfg config.LogConfig, verbose bool) (*Logger, error) {
	if cfg.Path == "" {
		return &Logger{Logger: Nop()}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	level := ParseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler), file: f}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
