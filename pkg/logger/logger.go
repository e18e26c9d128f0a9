package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"doc-text-reader/internal/domain"

	"github.com/rs/zerolog"
)

// Options configures the application logger.
type Options struct {
	Level  string
	Pretty bool
	Output io.Writer
}

// AppLogger implements the domain.Logger interface on top of zerolog
type AppLogger struct {
	zlog zerolog.Logger
}

// NewWithOptions creates a logger. Output defaults to stdout; Pretty switches
// from JSON lines to the console writer.
func NewWithOptions(opts Options) domain.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	if opts.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(parseLogLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", "doc-text-reader").
		Logger()

	return &AppLogger{zlog: zlog}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	withFields(l.zlog.Info(), fields).Msg(msg)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	withFields(l.zlog.Error().Err(err), fields).Msg(msg)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	withFields(l.zlog.Debug(), fields).Msg(msg)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	withFields(l.zlog.Warn(), fields).Msg(msg)
}

// withFields attaches alternating key/value pairs. A trailing key without a
// value is dropped.
func withFields(event *zerolog.Event, fields []interface{}) *zerolog.Event {
	if event == nil {
		return event
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		switch v := fields[i+1].(type) {
		case error:
			event = event.AnErr(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	return event
}

// parseLogLevel converts string log level to a zerolog level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
