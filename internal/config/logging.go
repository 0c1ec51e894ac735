package config

import (
	"log/slog"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}

// NormalizeLogLevel maps raw to a LogLevel, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	return normalize(logLevels, raw, LogLevelInfo)
}

// Slog returns the slog level for l.
func (l LogLevel) Slog() slog.Level {
	switch NormalizeLogLevel(string(l)) {
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

var logFormats = map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}

// NormalizeLogFormat maps raw to a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	return normalize(logFormats, raw, LogFormatText)
}

// VariantSource enumerates variant generators available from configuration.
type VariantSource string

const (
	VariantsFromDir  VariantSource = "dir"
	VariantsFromList VariantSource = "list"
)

var variantSources = map[string]VariantSource{
	"dir":  VariantsFromDir,
	"glob": VariantsFromDir,
	"list": VariantsFromList,
	"keys": VariantsFromList,
}

// NormalizeVariantSource maps raw to a VariantSource; "" when unknown.
func NormalizeVariantSource(raw string) VariantSource {
	return normalize(variantSources, raw, "")
}

func normalize[T ~string](values map[string]T, raw string, fallback T) T {
	if v, ok := values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return fallback
}
