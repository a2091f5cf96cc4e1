package middleware

import (
	"context"
	"net/http"
	"strings"

	"supplyhub/internal/model"
	"supplyhub/internal/service"
	"supplyhub/pkg/apierror"
)

// SessionKey is the key for storing session data in request context.
const SessionKey contextKey = "session"

// SessionCookieName is the cookie carrying the session token for the
// form-driven UI; API clients use the X-Session-Token header instead.
const SessionCookieName = "session_token"

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Sessions *service.SessionService
}

// NewAuthMiddleware creates an authentication middleware with injected
// dependencies. Every request passing through must carry a valid session
// token; the resolved session is stored in the request context.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				writeError(w, apierror.Unauthorized("Authentication required"))
				return
			}

			if cfg.Sessions == nil {
				writeError(w, apierror.Unauthorized("Session store unavailable"))
				return
			}

			session, err := cfg.Sessions.Validate(r.Context(), token)
			if err != nil {
				writeError(w, apierror.Unauthorized("Invalid or expired session"))
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken reads the session token from the X-Session-Token header, a
// Bearer authorization header, or the session cookie, in that order.
func ExtractToken(r *http.Request) string {
	if token := r.Header.Get("X-Session-Token"); token != "" {
		return token
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// GetSession retrieves the session data from request context.
func GetSession(ctx context.Context) *model.SessionData {
	if data, ok := ctx.Value(SessionKey).(*model.SessionData); ok {
		return data
	}
	return nil
}

// WithSession returns a context carrying the given session. Intended for
// tests exercising handlers without the middleware.
func WithSession(ctx context.Context, session *model.SessionData) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}
