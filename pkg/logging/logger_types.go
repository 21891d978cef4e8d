package logging

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

// String returns the upper-case name written into log entries.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel converts a level name to a Level, falling back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logging interface used across drugnet.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that adds fields to every entry
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// JSONLogger writes one JSON object per line.
type JSONLogger struct {
	writer io.Writer
	level  *levelBox
	fields []Field
	mu     *sync.Mutex
}

// levelBox lets child loggers follow SetLevel on their parent.
type levelBox struct {
	mu    sync.RWMutex
	level Level
}

// LogEntry is the JSON shape of a single line.
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything. Tests and library callers without a logger use it.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return InfoLevel }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation logs an operation together with its latency when it ends.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
