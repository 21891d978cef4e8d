// Package middleware provides the HTTP middleware used by the drugnet API.
//
// Every middleware has the shape func(http.Handler) http.Handler, so they
// chain by nesting:
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
//	handler = middleware.CORS(&middleware.CORSConfig{AllowedOrigins: []string{"*"}})(handler)
package middleware
