// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// TokenValidator checks a session token and returns the user ID it was
// issued for.
type TokenValidator interface {
	ValidateJWTToken(token string) (uint, error)
}

// AuthCookieName is the session cookie set on login.
const AuthCookieName = "auth_token"

// NewJWTMiddleware validates the session token from the auth cookie or the
// Authorization header and stores the user ID on the request context.
func NewJWTMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if cookie, err := r.Cookie(AuthCookieName); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			userID, err := validator.ValidateJWTToken(token)
			if err != nil {
				// Clear an invalid cookie so the client re-authenticates.
				http.SetCookie(w, &http.Cookie{
					Name:     AuthCookieName,
					Value:    "",
					Path:     "/",
					Expires:  time.Unix(0, 0),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID placed there by the
// JWT middleware.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	return userID, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
