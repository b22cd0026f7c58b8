// Package log builds the zap logger shared by every role of cfadmin.
package log

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment variables read by FromEnv. They are inherited by the master
// and the workers, so every process logs the same way.
const (
	EnvLevel  = "CFADMIN_LOG_LEVEL"
	EnvFormat = "CFADMIN_LOG_FORMAT"
	EnvFile   = "CFADMIN_LOG_FILE"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds the logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console, json

	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer

	// File, when set, is written through a rotating writer in addition to
	// Output. A daemonized process has its stdio on the null device, so this
	// is the only place its logs go.
	File       string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     FormatConsole,
		Output:     os.Stderr,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// FromEnv creates a Config from the CFADMIN_LOG_* environment variables.
func FromEnv() *Config {
	cfg := DefaultConfig()
	if level := os.Getenv(EnvLevel); level != "" {
		cfg.Level = strings.ToLower(level)
	}
	if format := os.Getenv(EnvFormat); format != "" {
		cfg.Format = strings.ToLower(format)
	}
	cfg.File = os.Getenv(EnvFile)
	return cfg
}

// New creates a logger from the given configuration.
func New(cfg *Config) *zap.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == FormatJSON {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level := ParseLevel(cfg.Level)
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(out), level),
	}
	if cfg.File != "" {
		writer := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
