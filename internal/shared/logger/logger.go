package logger

import (
	"io"
	"log/slog"
	"os"

	"system-exporter/internal/shared/config"

	"github.com/mattn/go-isatty"
)

func Init() {
	if config.GlobalConfig == nil {
		panic("config must be initialized before logger")
	}

	InitWithWriter(os.Stdout)
}

// InitWithWriter installs the default logger writing to w. JSON output is used
// in production or whenever w is not an interactive terminal.
func InitWithWriter(w io.Writer) {
	logConfig := config.GlobalConfig.Logging
	level := parseLogLevel(logConfig.Level)

	jsonFormat := logConfig.JSONFormat
	if f, ok := w.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		jsonFormat = true
	}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	slog.SetDefault(slog.New(handler))

	logger := slog.With("component", "logger")
	logger.Debug("Logger initialized",
		"level", logConfig.Level,
		"json_format", jsonFormat,
		"environment", config.GlobalConfig.Server.Environment,
	)
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
