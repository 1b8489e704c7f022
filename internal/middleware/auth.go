package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/libraryhub/libraryhub-go/internal/response"
)

// AuthCookieName is the cookie that carries the access token for browser sessions.
const AuthCookieName = "auth"

type contextKey string

const userIDKey contextKey = "userID"

// TokenVerifier resolves an access token to the user it was issued to.
type TokenVerifier interface {
	VerifyAccessToken(token string) (int64, bool)
}

// AdminChecker reports whether a user holds the administrator role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// CredentialFromRequest returns the access token from the Authorization header,
// falling back to the auth cookie.
func CredentialFromRequest(r *http.Request) string {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if c, err := r.Cookie(AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate rejects requests without a valid access token. Every failure
// gets the same 401 so callers cannot tell a missing token from an expired one.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := v.VerifyAccessToken(CredentialFromRequest(r))
			if !ok {
				response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the caller when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := v.VerifyAccessToken(CredentialFromRequest(r)); ok {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin must run after Authenticate. Non-administrators get 403.
func RequireAdmin(c AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
				return
			}

			admin, err := c.IsAdmin(r.Context(), userID)
			if err != nil {
				slog.Error("admin check failed", "user_id", userID, "error", err)
				response.Error(w, http.StatusInternalServerError, response.CodeInternal, "internal server error")
				return
			}
			if !admin {
				response.Error(w, http.StatusForbidden, response.CodeForbidden, "admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
