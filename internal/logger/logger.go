package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// LogLevel defines the severity of the log
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelError
	LevelDebug
)

// AppLogger handles application logging to the console
type AppLogger struct {
	out *log.Logger
}

// New creates a logger writing to w. LevelDebug enables debug lines,
// LevelError keeps only errors.
func New(w io.Writer, level LogLevel) *AppLogger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	switch level {
	case LevelDebug:
		l.SetLevel(log.DebugLevel)
	case LevelError:
		l.SetLevel(log.ErrorLevel)
	default:
		l.SetLevel(log.InfoLevel)
	}
	return &AppLogger{out: l}
}

// NewConsole creates a logger on stderr
func NewConsole(verbose bool) *AppLogger {
	if verbose {
		return New(os.Stderr, LevelDebug)
	}
	return New(os.Stderr, LevelInfo)
}

// Info logs an informational message
func (l *AppLogger) Info(format string, args ...interface{}) {
	l.out.Infof(format, args...)
}

// Warn logs a recoverable problem
func (l *AppLogger) Warn(format string, args ...interface{}) {
	l.out.Warnf(format, args...)
}

// Error logs an error message
func (l *AppLogger) Error(format string, args ...interface{}) {
	l.out.Errorf(format, args...)
}

// Debug logs a debug message (match scores, pointer moves)
func (l *AppLogger) Debug(format string, args ...interface{}) {
	l.out.Debugf(format, args...)
}

// With returns a logger that prefixes every line, e.g. the component name.
func (l *AppLogger) With(prefix string) *AppLogger {
	return &AppLogger{out: l.out.WithPrefix(prefix)}
}
