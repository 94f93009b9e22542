// File: internal/middleware/recovery.go
package middleware

import (
	"net/http"

	"github.com/ysakura/eigo-coach/internal/services"
)

// NewRecoveryMiddleware converts handler panics into 500 responses instead
// of tearing down the connection handler.
func NewRecoveryMiddleware(logger services.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", "path", r.URL.Path, "panic", err)
					w.Header().Set("Connection", "close")
					http.Error(w, "Something went wrong on our end.", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
