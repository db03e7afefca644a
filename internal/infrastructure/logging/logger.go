package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/pin-logic-core/internal/infrastructure/config"
)

// Logger wraps slog.Logger with Pin Logic-specific defaults.
//
// It provides structured logging with default fields and level-based
// filtering. All methods are safe for concurrent use from multiple
// goroutines.
type Logger struct {
	*slog.Logger
}

// New creates a Logger from the logging configuration: output destination,
// format (JSON or text) and level filtering, with the service name and
// version attached as default fields.
func New(cfg config.LoggingConfig, service, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", service),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// parseLevel converts a string log level to slog.Level.
// Supported levels: debug, info, warn, error. Defaults to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a new Logger with additional default attributes.
//
// Example:
//
//	clockLogger := logger.With("component", "clock")
//	clockLogger.Info("started") // includes component=clock
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default creates a logger for use before configuration is loaded.
// It writes JSON to stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "pinlogic", "dev")
}
