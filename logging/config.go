package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SetupLogger builds the service logger: a text handler on stderr, and
// when logDir is set, a JSON log file alongside it. The level comes
// from LOG_LEVEL (default info).
func SetupLogger(logDir string) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	writer := io.Writer(os.Stderr)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o750); err != nil {
			slog.Warn("Could not create log directory, logging to console only", "dir", logDir, "error", err)
		} else {
			logPath := filepath.Join(logDir, "rxguard.log")
			file, err := os.OpenFile(filepath.Clean(logPath), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
			if err != nil {
				slog.Warn("Could not open log file, logging to console only", "file", logPath, "error", err)
			} else {
				writer = io.MultiWriter(os.Stderr, file)
			}
		}
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
