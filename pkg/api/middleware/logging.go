package middleware

import (
	"net/http"
	"time"

	"github.com/dd0wney/drugnet/pkg/logging"
)

// Logging logs one line per request with its status and latency.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)
			next.ServeHTTP(rw, r)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.Path(r.URL.Path),
				logging.Int("status", rw.statusCode),
				logging.Latency(time.Since(start)),
			}
			if id := GetRequestID(r); id != "" {
				fields = append(fields, logging.String("request_id", id))
			}
			if rw.statusCode >= http.StatusInternalServerError {
				logger.Warn("http request", fields...)
				return
			}
			logger.Debug("http request", fields...)
		})
	}
}
