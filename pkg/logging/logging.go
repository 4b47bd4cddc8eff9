// Package logging provides the orchestrator's structured logger, a thin
// wrapper over zap so call sites never import zap directly.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a re-export of zap.Field so callers don't need the zap import
// path for the common case of building fields.
type Field = zap.Field

// String, Int, Bool and Err mirror the zap constructors most commonly
// needed by the orchestrator and backends.
var (
	String = zap.String
	Int    = zap.Int
	Bool   = zap.Bool
	Err    = zap.Error
)

// Logger is the logging surface threaded through the CLI and orchestrator;
// the backends and their console client are built with Nop. It is a thin facade over *zap.Logger kept so the rest of the
// module depends on this package, not directly on zap.
type Logger struct {
	z *zap.Logger
}

// New builds a Logger. When verbose is true, debug-level logs are emitted
// using zap's development encoder (human-readable console output);
// otherwise the production JSON encoder is used, matching the split in
// codenerd's cmd/nerd main.go between --debug and default runs.
func New(verbose bool) *Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than failing the whole process
		// over a logging misconfiguration.
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything, for tests.
func Nop() *Logger { return &Logger{z: zap.NewNop()} }

func (l *Logger) Debug(msg string, fields ...Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }

// With returns a child Logger that always includes the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{z: l.z.With(fields...)}
}

// Sync flushes any buffered log entries; call it before process exit.
func (l *Logger) Sync() error { return l.z.Sync() }
