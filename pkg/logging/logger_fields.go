package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error records err under "error"; a nil error is recorded as null.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

// NodeID records a drug node id. An empty id (no focus) is recorded as null.
func NodeID(id string) Field {
	if id == "" {
		return Field{Key: "node_id", Value: nil}
	}
	return String("node_id", id)
}

func Threshold(v float64) Field {
	return Float64("threshold", v)
}

func Mode(m string) Field {
	return String("mode", m)
}

func Source(name string) Field {
	return String("source", name)
}
