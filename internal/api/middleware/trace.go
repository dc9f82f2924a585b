// Package middleware contains HTTP middleware for the API: request tracing
// and JWT authentication.
package middleware

import (
	"net/http"

	"github.com/costscope/costscope-api/internal/api/shared"
)

// TraceMiddleware assigns a trace ID to every request so that log lines and
// error responses can be correlated.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
