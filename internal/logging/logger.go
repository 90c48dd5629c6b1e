package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SafeLogger wraps a zap logger and tolerates a nil receiver or nil inner logger
type SafeLogger struct {
	logger *zap.Logger
}

var (
	// Logger is the global logger instance, a no-op until InitLogger runs
	Logger = &SafeLogger{logger: zap.NewNop()}
)

// NewSafeLogger wraps an existing zap logger
func NewSafeLogger(l *zap.Logger) *SafeLogger {
	return &SafeLogger{logger: l}
}

// InitLogger initializes the global logger
func InitLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Set log level from environment
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	l, err := config.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", "app-dept-pages"),
			zap.String("version", "v1"),
		),
	)
	if err != nil {
		return err
	}

	Logger = &SafeLogger{logger: l}
	zap.ReplaceGlobals(l)
	return nil
}

func (s *SafeLogger) get() *zap.Logger {
	if s == nil {
		return nil
	}
	return s.logger
}

// Debug logs at debug level
func (s *SafeLogger) Debug(msg string, fields ...zap.Field) {
	if l := s.get(); l != nil {
		l.Debug(msg, fields...)
	}
}

// Info logs at info level
func (s *SafeLogger) Info(msg string, fields ...zap.Field) {
	if l := s.get(); l != nil {
		l.Info(msg, fields...)
	}
}

// Warn logs at warn level
func (s *SafeLogger) Warn(msg string, fields ...zap.Field) {
	if l := s.get(); l != nil {
		l.Warn(msg, fields...)
	}
}

// Error logs at error level
func (s *SafeLogger) Error(msg string, fields ...zap.Field) {
	if l := s.get(); l != nil {
		l.Error(msg, fields...)
	}
}

// Fatal logs at fatal level and exits. With no logger configured it still exits.
func (s *SafeLogger) Fatal(msg string, fields ...zap.Field) {
	if l := s.get(); l != nil {
		l.Fatal(msg, fields...)
		return
	}
	os.Exit(1)
}

// With returns a child logger carrying the given fields
func (s *SafeLogger) With(fields ...zap.Field) *SafeLogger {
	if l := s.get(); l != nil {
		return &SafeLogger{logger: l.With(fields...)}
	}
	return s
}

// Named returns a child logger with the given name appended
func (s *SafeLogger) Named(name string) *SafeLogger {
	if l := s.get(); l != nil {
		return &SafeLogger{logger: l.Named(name)}
	}
	return s
}

// Sync flushes buffered log entries
func (s *SafeLogger) Sync() error {
	if l := s.get(); l != nil {
		return l.Sync()
	}
	return nil
}

// Unwrap returns the underlying zap logger, or a no-op logger when none is set
func (s *SafeLogger) Unwrap() *zap.Logger {
	if l := s.get(); l != nil {
		return l
	}
	return zap.NewNop()
}
