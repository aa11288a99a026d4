package logging

import (
	"io"
	"log/slog"
	"strings"
)

// BuildLogger returns a slog logger writing JSON (default) or text records at
// the given level.
func BuildLogger(level, format string, w io.Writer) *slog.Logger {
	ops := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, ops))
	}
	return slog.New(slog.NewJSONHandler(w, ops))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Discard is a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

func PIDAttr(pid string) slog.Attr {
	return slog.String("pid", pid)
}
