package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// NewJSONLogger creates a logger writing JSON lines to writer.
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		level:  &levelBox{level: level},
		mu:     &sync.Mutex{},
	}
}

// NewFileLogger appends JSON lines to the file at path. The caller closes the
// returned file. Used by the terminal UI, which owns stdout.
func NewFileLogger(path string, level Level) (*JSONLogger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return NewJSONLogger(f, level), f, nil
}

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if level < l.GetLevel() {
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
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields)
}

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields)
}

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields)
}

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields)
}

// With creates a child logger sharing the writer, lock and level.
func (l *JSONLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &JSONLogger{
		writer: l.writer,
		level:  l.level,
		fields: merged,
		mu:     l.mu,
	}
}

// SetLevel changes the level for this logger and every child derived from it.
func (l *JSONLogger) SetLevel(level Level) {
	l.level.mu.Lock()
	l.level.level = level
	l.level.mu.Unlock()
}

func (l *JSONLogger) GetLevel() Level {
	l.level.mu.RLock()
	defer l.level.mu.RUnlock()
	return l.level.level
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// DefaultLogger returns the process-wide logger, created on first use from
// LOG_LEVEL and writing to stderr.
func DefaultLogger() Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewJSONLogger(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")))
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

func Debug(msg string, fields ...Field) {
	DefaultLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	DefaultLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	DefaultLogger().Warn(msg, fields...)
}

// ErrorLog logs at error level on the default logger. Error is taken by the
// field constructor.
func ErrorLog(msg string, fields ...Field) {
	DefaultLogger().Error(msg, fields...)
}

// With derives a child of the default logger.
func With(fields ...Field) Logger {
	return DefaultLogger().With(fields...)
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// End logs the operation at info level with its latency.
func (t *TimedOperation) End(extra ...Field) {
	t.logger.Info(t.msg, t.collect(extra, nil)...)
}

// EndError logs the operation as failed.
func (t *TimedOperation) EndError(err error, extra ...Field) {
	t.logger.Error(t.msg, t.collect(extra, err)...)
}

func (t *TimedOperation) collect(extra []Field, err error) []Field {
	fields := make([]Field, 0, len(t.fields)+len(extra)+2)
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	fields = append(fields, Latency(time.Since(t.start)))
	if err != nil {
		fields = append(fields, Error(err))
	}
	return fields
}
