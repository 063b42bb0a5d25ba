package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/assetinject/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// NormalizeLogLevel maps raw to a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// SlogLevel converts the level for slog.HandlerOptions.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// NormalizeLogFormat maps raw to a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}

// EnvLogLevel overrides the configured level when set.
const EnvLogLevel = "ASSETINJECT_LOG_LEVEL"

// NewLogger builds the process logger. verbose forces debug; otherwise the
// ASSETINJECT_LOG_LEVEL variable overrides the configured level.
func NewLogger(w io.Writer, cfg LoggingConfig, verbose bool) *slog.Logger {
	level := cfg.Level
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		level = NormalizeLogLevel(env)
	}
	if verbose {
		level = LogLevelDebug
	}
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if cfg.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
