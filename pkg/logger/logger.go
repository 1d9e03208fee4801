// Package logger provides structured logging for the knoxshield daemon and CLI
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level logrus.Level) *Logger {
	logger := logrus.New()
	logger.SetLevel(level)

	if os.Getenv("ENV") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	return &Logger{Logger: logger}
}

// NewDiscardLogger returns a logger that writes nothing. Used by tests and the CLI's quiet mode.
func NewDiscardLogger() *Logger {
	l := NewLogger(logrus.PanicLevel)
	l.SetOutput(io.Discard)
	return l
}

// LevelFromVerbose maps the CLI verbosity flag onto a logrus level.
func LevelFromVerbose(verbose bool) logrus.Level {
	if verbose {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// WithContext adds context-specific fields to the logger
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.Logger.WithContext(ctx)

	if reqID := ctx.Value("request_id"); reqID != nil {
		entry = entry.WithField("request_id", reqID)
	}

	return entry
}

// WithOperation adds operation-specific fields to the logger
func (l *Logger) WithOperation(operationID, toolID string) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields{
		"operation_id": operationID,
		"tool_id":      toolID,
	})
}

// WithError adds error context to the logger
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields Fields) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

// LogScript logs the start and end of a platform script invocation
func (l *Logger) LogScript(script string, fn func() error) error {
	start := time.Now()

	l.WithFields(Fields{
		"script": script,
		"action": "start",
	}).Debug("Script execution started")

	err := fn()

	fields := Fields{
		"script":   script,
		"action":   "complete",
		"duration": time.Since(start).String(),
	}

	if err != nil {
		fields["error"] = err.Error()
		l.WithFields(fields).Error("Script execution failed")
	} else {
		l.WithFields(fields).Debug("Script execution completed")
	}

	return err
}

var defaultLogger = NewLogger(logrus.InfoLevel)

// SetLevel sets the log level for the default logger
func SetLevel(level logrus.Level) {
	defaultLogger.SetLevel(level)
}

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}

// Info logs an info message using the default logger
func Info(args ...interface{}) {
	defaultLogger.Info(args...)
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

// Error logs an error message using the default logger
func Error(args ...interface{}) {
	defaultLogger.Error(args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

// WithFields returns an entry with the specified fields using the default logger
func WithFields(fields Fields) *logrus.Entry {
	return defaultLogger.WithFields(fields)
}
