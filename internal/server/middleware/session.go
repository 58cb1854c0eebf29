package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/loftylabs/lofty/internal/auth"
	"github.com/loftylabs/lofty/internal/logging"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionAuth validates the Bearer session token issued at sign-in and puts
// the session on the request context.
func SessionAuth(manager *auth.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if session, ok := manager.SessionFor(token); ok {
					next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
					return
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "Invalid or expired session", "type": "authentication_error"}}`))
		})
	}
}

// RequestID tags every request with an ID for log correlation. An incoming
// X-Request-ID is honored so the windows can correlate their own calls.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = logging.GenerateRequestID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// WithSession stores the session on the context.
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFrom retrieves the session placed by SessionAuth.
func SessionFrom(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*auth.Session)
	return session, ok
}
