package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// Logger is the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Log writes at an explicit level
	Log(level Level, msg string, fields ...Field)

	// With creates a child logger with the given fields pre-set
	With(fields ...Field) Logger

	// Enabled reports whether entries at level are written
	Enabled(level Level) bool
}

// LogEntry represents a single log line
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// JSONLogger implements Logger with one JSON object per line. Children
// created by With share the parent's writer lock.
type JSONLogger struct {
	mu     *sync.Mutex
	writer io.Writer
	level  Level
	fields []Field
}

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		mu:     &sync.Mutex{},
		writer: writer,
		level:  level,
	}
}

// FromEnv creates a stderr logger at the level named by LOG_LEVEL.
// Unknown names fall back to INFO.
func FromEnv() *JSONLogger {
	level, _ := ParseLevel(os.Getenv("LOG_LEVEL"))
	return NewJSONLogger(os.Stderr, level)
}

// Log implements Logger.
func (l *JSONLogger) Log(level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Time:    time.Now().UTC().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		for _, f := range l.fields {
			entry.Fields[f.Key] = f.Value
		}
		// call-site fields override preset ones
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","msg":"unencodable log entry","error":%q}`, err.Error()))
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Write(data)
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) { l.Log(DebugLevel, msg, fields...) }

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) { l.Log(InfoLevel, msg, fields...) }

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) { l.Log(WarnLevel, msg, fields...) }

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) { l.Log(ErrorLevel, msg, fields...) }

// Enabled implements Logger.
func (l *JSONLogger) Enabled(level Level) bool {
	return level >= l.level
}

// With creates a child logger with the given fields pre-set
func (l *JSONLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)

	return &JSONLogger{
		mu:     l.mu,
		writer: l.writer,
		level:  l.level,
		fields: merged,
	}
}

// NopLogger discards everything; the default for library callers and tests
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)      {}
func (NopLogger) Info(string, ...Field)       {}
func (NopLogger) Warn(string, ...Field)       {}
func (NopLogger) Error(string, ...Field)      {}
func (NopLogger) Log(Level, string, ...Field) {}
func (n NopLogger) With(...Field) Logger      { return n }
func (NopLogger) Enabled(Level) bool          { return false }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}
