package middleware

import (
	"context"
	"net/http"

	"github.com/arrorpranav/user-registry/internal/auth"
)

type ctxKey string

// UsernameKey is the request-context key under which RequireAuth stores the
// authenticated username.
const UsernameKey ctxKey = "username"

// SessionValidator resolves a session ID to a username. An empty username
// with a nil error means the session does not exist or has expired.
type SessionValidator interface {
	Get(ctx context.Context, sessionID string) (string, error)
}

// RequireAuth validates the session cookie and injects the username into
// the request context.
func RequireAuth(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				http.Error(w, `{"message":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			username, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || username == "" {
				http.Error(w, `{"message":"session expired"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
