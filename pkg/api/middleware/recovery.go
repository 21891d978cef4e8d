package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/dd0wney/drugnet/pkg/logging"
)

// PanicRecovery turns a handler panic into a 500. The stack trace is logged,
// never sent to the client.
func PanicRecovery(logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic in HTTP handler",
						logging.String("method", r.Method),
						logging.Path(r.URL.Path),
						logging.Any("panic", rec),
						logging.String("stack", string(debug.Stack())),
						logging.String("request_id", GetRequestID(r)),
					)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
