package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel переводит строку уровня из конфига в slog.Level (по умолчанию info)
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New создаёт JSON логгер, пишущий в w
func New(w io.Writer, levelStr string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(levelStr),
	})
	return slog.New(handler).With("service", "picshare")
}

// InitLogger инициализирует глобальный логгер с указанным уровнем
func InitLogger(levelStr string) {
	slog.SetDefault(New(os.Stdout, levelStr))
}
