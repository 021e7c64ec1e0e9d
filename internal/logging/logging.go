package logging

import (
	"log/slog"
	"os"
)

// Fields carries structured key-value pairs attached to a log line.
type Fields map[string]interface{}

// Logger is a named structured logger. Each component creates its own via
// New so log lines can be traced back to the component that emitted them.
type Logger struct {
	l *slog.Logger
}

// New creates a logger named after a component.
func New(component string) *Logger {
	return &Logger{
		l: slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("component", component),
	}
}

func (lg *Logger) Debug(msg string, fields ...Fields) {
	lg.l.Debug(msg, attrs(fields)...)
}

func (lg *Logger) Info(msg string, fields ...Fields) {
	lg.l.Info(msg, attrs(fields)...)
}

func (lg *Logger) Warn(msg string, fields ...Fields) {
	lg.l.Warn(msg, attrs(fields)...)
}

func (lg *Logger) Error(msg string, fields ...Fields) {
	lg.l.Error(msg, attrs(fields)...)
}

// Fatal logs at error level and exits the process. Only used during startup
// wiring; nothing in the request path is fatal.
func (lg *Logger) Fatal(msg string, fields ...Fields) {
	lg.l.Error(msg, attrs(fields)...)
	os.Exit(1)
}

func attrs(fields []Fields) []any {
	var out []any
	for _, f := range fields {
		for k, v := range f {
			out = append(out, slog.Any(k, v))
		}
	}
	return out
}
