// Package glog provides structured logging with experiment context.
//
// Two logger variants are available:
//   - Logger: non-sugared zap.Logger for the executor's hot path (structured fields)
//   - SugaredLogger: printf-style logging for CLI/debug surfaces
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed.
package glog

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ExperimentContext carries the identifying fields attached to every log
// entry emitted during one experiment run.
type ExperimentContext struct {
	ExperimentName string
	ConfigHash     string
	WorkerIndex    *uint32
}

// Logger wraps zap.Logger with experiment context. Use for the executor's
// hot path where performance matters; use Sugar() for CLI surfaces.
type Logger struct {
	zap *zap.Logger
}

// SugaredLogger wraps zap.SugaredLogger with experiment context, for
// printf-style logging on CLI and debug surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// New creates a new logger with experiment context, writing to stderr.
func New(ctx ExperimentContext) *Logger {
	return newWithWriter(ctx, os.Stderr)
}

// WithOutput returns a new logger writing to w instead of stderr.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), zapcore.DebugLevel)
	return &Logger{zap: l.zap.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))}
}

func newWithWriter(ctx ExperimentContext, w io.Writer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), zapcore.DebugLevel)

	fields := []zap.Field{zap.String("experiment", ctx.ExperimentName)}
	if ctx.ConfigHash != "" {
		fields = append(fields, zap.String("config_hash", ctx.ConfigHash))
	}
	if ctx.WorkerIndex != nil {
		fields = append(fields, zap.Uint32("worker", *ctx.WorkerIndex))
	}

	return &Logger{zap: zap.New(core).With(fields...)}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

func (l *Logger) Debug(message string, fields map[string]any) { l.zap.Debug(message, zap.Any("fields", fields)) }
func (l *Logger) Info(message string, fields map[string]any)  { l.zap.Info(message, zap.Any("fields", fields)) }
func (l *Logger) Warn(message string, fields map[string]any)  { l.zap.Warn(message, zap.Any("fields", fields)) }
func (l *Logger) Error(message string, fields map[string]any) { l.zap.Error(message, zap.Any("fields", fields)) }

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger { return &SugaredLogger{sugar: l.zap.Sugar()} }

func (s *SugaredLogger) Debugf(template string, args ...any) { s.sugar.Debugf(template, args...) }
func (s *SugaredLogger) Infof(template string, args ...any)  { s.sugar.Infof(template, args...) }
func (s *SugaredLogger) Warnf(template string, args ...any)  { s.sugar.Warnf(template, args...) }
func (s *SugaredLogger) Errorf(template string, args ...any) { s.sugar.Errorf(template, args...) }

// Infow logs a message with structured key/value pairs, for the
// executor's per-run progress logging.
func (s *SugaredLogger) Infow(message string, keysAndValues ...any) {
	s.sugar.Infow(message, keysAndValues...)
}

// Warnw logs a warning with structured key/value pairs.
func (s *SugaredLogger) Warnw(message string, keysAndValues ...any) {
	s.sugar.Warnw(message, keysAndValues...)
}

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}

// Nop returns a SugaredLogger that discards all output, for tests and
// callers that don't need logging.
func Nop() *SugaredLogger {
	return &SugaredLogger{sugar: zap.NewNop().Sugar()}
}
