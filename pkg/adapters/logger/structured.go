package logger

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/user/mdposter/pkg/ports"
)

// StructuredLogger writes JSON lines through zerolog.
// Messages are formatted untranslated so log pipelines see stable text.
type StructuredLogger struct {
	zl zerolog.Logger
}

// NewStructured creates a JSON logger writing to w.
func NewStructured(level ports.LogLevel, w io.Writer) *StructuredLogger {
	zl := zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger()
	return &StructuredLogger{zl: zl}
}

// RotatingFile opens a size-rotated log file.
func RotatingFile(path string, maxSizeMB, maxBackups, maxAgeDays int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
}

func zerologLevel(level ports.LogLevel) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelInfo:
		return zerolog.InfoLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Debug logs a debug message.
func (l *StructuredLogger) Debug(msg string, args ...interface{}) {
	l.zl.Debug().Msg(format(msg, args))
}

// Info logs an informational message.
func (l *StructuredLogger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msg(format(msg, args))
}

// Warn logs a warning message.
func (l *StructuredLogger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msg(format(msg, args))
}

// Error logs an error message.
func (l *StructuredLogger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msg(format(msg, args))
}

// WithComponent returns a logger with a "component" field.
func (l *StructuredLogger) WithComponent(component string) ports.Logger {
	return &StructuredLogger{zl: l.zl.With().Str("component", component).Logger()}
}

// WithField returns a logger with an extra field.
func (l *StructuredLogger) WithField(key string, value interface{}) ports.Logger {
	return &StructuredLogger{zl: l.zl.With().Interface(key, value).Logger()}
}

var _ ports.Logger = (*StructuredLogger)(nil)
