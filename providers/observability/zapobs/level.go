package zapobs

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelFromEnv returns the log level configured via environment variables.
// It checks LLMCALL_LOG_LEVEL first, then falls back to LOG_LEVEL.
// Default: INFO
func LevelFromEnv() zapcore.Level {
	level := os.Getenv("LLMCALL_LOG_LEVEL")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		return zapcore.InfoLevel
	}
	return ParseLevel(level)
}

// ParseLevel parses DEBUG, INFO, WARN, WARNING or ERROR (case-insensitive).
// Unknown values fall back to INFO with a warning on stderr.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "TRACE":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		fmt.Fprintf(os.Stderr, "Warning: Unknown log level '%s', using INFO\n", level)
		return zapcore.InfoLevel
	}
}

// NewLogger builds a production zap logger at level. Development loggers use
// the console encoder.
func NewLogger(level zapcore.Level, development bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build()
}
