// Package logging provides implementations of the ports.Logger interface.
// It includes a ZapLogger for structured console output and a NopLogger
// for disabled logging.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/felixgeelhaar/pluginscout/internal/ports"
)

// ZapLogger implements ports.Logger on top of zap.
type ZapLogger struct {
	zl *zap.Logger
}

// Config defines zap logger configuration.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string
}

// DefaultConfig returns production-ready logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Development: false,
		OutputPaths: []string{"stderr"},
	}
}

// DevelopmentConfig returns development logger configuration.
func DevelopmentConfig() Config {
	return Config{
		Level:       "debug",
		Development: true,
		OutputPaths: []string{"stderr"},
	}
}

// NewZapLogger creates a logger with the provided configuration.
func NewZapLogger(cfg Config) (*ZapLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoding := "json"
	encoderCfg := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoding = "console"
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: !cfg.Development,
	}

	zl, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{zl: zl}, nil
}

// NewDefault creates a logger with default configuration.
// Falls back to a no-op zap core if construction fails.
func NewDefault() *ZapLogger {
	logger, err := NewZapLogger(DefaultConfig())
	if err != nil {
		return &ZapLogger{zl: zap.NewNop()}
	}
	return logger
}

// Debug logs a debug message.
func (l *ZapLogger) Debug(_ context.Context, msg string, fields ...ports.Field) {
	l.zl.Debug(msg, zapFields(fields)...)
}

// Info logs an informational message.
func (l *ZapLogger) Info(_ context.Context, msg string, fields ...ports.Field) {
	l.zl.Info(msg, zapFields(fields)...)
}

// Warn logs a warning message.
func (l *ZapLogger) Warn(_ context.Context, msg string, fields ...ports.Field) {
	l.zl.Warn(msg, zapFields(fields)...)
}

// Error logs an error message.
func (l *ZapLogger) Error(_ context.Context, msg string, fields ...ports.Field) {
	l.zl.Error(msg, zapFields(fields)...)
}

// With returns a new logger with the given fields attached to every entry.
func (l *ZapLogger) With(fields ...ports.Field) ports.Logger {
	return &ZapLogger{zl: l.zl.With(zapFields(fields)...)}
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.zl.Sync()
}

func zapFields(fields []ports.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// Ensure ZapLogger implements Logger.
var _ ports.Logger = (*ZapLogger)(nil)
