package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// MetricsRecorder is an interface for recording HTTP metrics
type MetricsRecorder interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	RecordResponseSize(method, path string, size float64)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()
}

// responseWriter captures the status code and bytes written
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	wroteHeader  bool
}

// wrap returns w as a *responseWriter, reusing an existing wrapper.
func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.statusCode = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// RouteFunc maps a request to a low-cardinality route label.
type RouteFunc func(*http.Request) string

// Metrics creates middleware that tracks HTTP request metrics. route keeps
// path parameters such as drug ids out of the label set; nil uses the raw
// path.
func Metrics(recorder MetricsRecorder, route RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if recorder == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder.IncHTTPRequestsInFlight()
			defer recorder.DecHTTPRequestsInFlight()

			rw := wrap(w)
			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if route != nil {
				path = route(r)
			}
			recorder.RecordHTTPRequest(r.Method, path, strconv.Itoa(rw.statusCode), time.Since(start))
			recorder.RecordResponseSize(r.Method, path, float64(rw.bytesWritten))
		})
	}
}
