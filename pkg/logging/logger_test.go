package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{" info ", InfoLevel},
		{"Warn", WarnLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"", InfoLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	t.Run("Duration", func(t *testing.T) {
		f := Duration("timeout", 5*time.Second)
		if f.Key != "timeout" || f.Value != "5s" {
			t.Errorf("Duration() = %+v", f)
		}
	})

	t.Run("Error", func(t *testing.T) {
		f := Error(errors.New("boom"))
		if f.Key != "error" || f.Value != "boom" {
			t.Errorf("Error() = %+v", f)
		}
	})

	t.Run("Error_nil", func(t *testing.T) {
		f := Error(nil)
		if f.Key != "error" || f.Value != nil {
			t.Errorf("Error(nil) = %+v", f)
		}
	})

	t.Run("NodeID", func(t *testing.T) {
		f := NodeID("drug_001")
		if f.Key != "node_id" || f.Value != "drug_001" {
			t.Errorf("NodeID() = %+v", f)
		}
		if f := NodeID(""); f.Value != nil {
			t.Errorf("NodeID(\"\") = %+v, want nil value", f)
		}
	})

	t.Run("Threshold", func(t *testing.T) {
		f := Threshold(0.55)
		if f.Key != "threshold" || f.Value != 0.55 {
			t.Errorf("Threshold() = %+v", f)
		}
	})
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("focus changed", NodeID("drug_004"), Mode("focal"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "focus changed" {
		t.Errorf("Message = %v", entry.Message)
	}
	if entry.Fields["node_id"] != "drug_004" || entry.Fields["mode"] != "focal" {
		t.Errorf("Fields = %v", entry.Fields)
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("Levels = %s, %s", entries[0].Level, entries[1].Level)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("explorer"))
	child.Info("snapshot replaced", Count(15))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Fields["component"] != "explorer" {
		t.Errorf("component field = %v", entries[0].Fields["component"])
	}
	if entries[0].Fields["count"] != float64(15) {
		t.Errorf("count field = %v", entries[0].Fields["count"])
	}
}

func TestJSONLogger_SetLevelPropagatesToChildren(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("tui"))

	logger.SetLevel(ErrorLevel)
	if child.GetLevel() != ErrorLevel {
		t.Fatalf("child level = %v, want ERROR", child.GetLevel())
	}

	child.Info("suppressed")
	if buf.Len() != 0 {
		t.Error("Expected no output for Info at ErrorLevel")
	}
	child.Error("kept")
	if buf.Len() == 0 {
		t.Error("Expected output for Error at ErrorLevel")
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("message without fields")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, exists := entry["fields"]; exists {
		t.Error("Expected fields key to be omitted when empty")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drugnet.log")

	logger, closer, err := NewFileLogger(path, DebugLevel)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Debug("written to file", Source("mock"))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"source":"mock"`) {
		t.Errorf("log file = %s", data)
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	StartTimer(logger, "load network", Threshold(0.5)).End(Count(3))
	StartTimer(logger, "load network", Threshold(0.9)).EndError(errors.New("unreachable"))

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if _, ok := entries[0].Fields["latency"]; !ok {
		t.Error("Expected latency field")
	}
	if entries[0].Fields["count"] != float64(3) {
		t.Errorf("count = %v", entries[0].Fields["count"])
	}
	if entries[1].Level != "ERROR" || entries[1].Fields["error"] != "unreachable" {
		t.Errorf("error entry = %+v", entries[1])
	}
}

func TestGlobalHelperFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(nil)

	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	ErrorLog("error msg")
	With(String("service", "drugnet")).Info("child")

	entries := decodeLines(t, &buf)
	if len(entries) != 5 {
		t.Fatalf("Expected 5 log entries, got %d", len(entries))
	}
	levels := []string{"DEBUG", "INFO", "WARN", "ERROR", "INFO"}
	for i, want := range levels {
		if entries[i].Level != want {
			t.Errorf("Entry %d level = %v, want %v", i, entries[i].Level, want)
		}
	}
	if entries[4].Fields["service"] != "drugnet" {
		t.Errorf("service field = %v", entries[4].Fields["service"])
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored")
	if logger.With(Component("x")) == nil {
		t.Error("With returned nil")
	}
	if logger.GetLevel() != InfoLevel {
		t.Errorf("GetLevel() = %v", logger.GetLevel())
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message",
			NodeID("drug_001"),
			Int("neighbors", 4),
		)
	}
}
