package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/payroll-transparency/internal/config"
	"github.com/go-chi/httplog/v3"
)

const appName = "payroll-transparency"

// New builds the process logger. Production output is ECS-shaped JSON so request logs
// from httplog and application logs share one schema.
func New(cfg config.AppConfig) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg)
}

func NewWithWriter(w io.Writer, cfg config.AppConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}

	var handler slog.Handler
	switch format(cfg) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		opts.ReplaceAttr = httplog.SchemaECS.Concise(cfg.Env == "development").ReplaceAttr
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("app", appName),
		slog.String("env", cfg.Env),
	)
}

// ParseLevel maps LOG_LEVEL to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func format(cfg config.AppConfig) string {
	if cfg.LogFormat != "" {
		return strings.ToLower(cfg.LogFormat)
	}
	if cfg.Env == "development" {
		return "text"
	}
	return "json"
}
