// Package logger wraps zap with the small structured-logging interface
// the rest of this repo depends on, mirroring how the teacher's
// pkg/logger is consumed (e.g. logger.NewNoopLogger() in
// server/test/write_assertions.go, and zap field helpers in
// pkg/storage/hedger/hedger.go's cfg.Logger.Info calls).
package logger

import "go.uber.org/zap"

// Logger is the structured logging contract used by the evaluator,
// write API, storage adapters, and CLI.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
}

type zapLogger struct {
	logger *zap.Logger
}

var _ Logger = (*zapLogger)(nil)

// New constructs a production zap.Logger-backed Logger.
func New() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	return &zapLogger{logger: l}, nil
}

// NewNoopLogger returns a Logger that discards everything written to
// it, for use in tests and library callers that don't want logs.
func NewNoopLogger() Logger {
	return &zapLogger{logger: zap.NewNop()}
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.logger.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.logger.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.logger.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.logger.Error(msg, fields...) }

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{logger: l.logger.With(fields...)}
}
