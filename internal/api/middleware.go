/**
 * @description
 * This file contains the session middleware for the HTTP router. Every
 * console route except session creation runs with a resolved session in the
 * request context.
 *
 * @dependencies
 * - context, net/http: Standard Go libraries.
 * - github.com/google/uuid: Session id parsing.
 * - internal/app: Session registry.
 */

package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/muralops/payout-console/internal/app"
)

// SessionHeader carries the console session id on every request.
const SessionHeader = "X-Session-ID"

type contextKey string

const sessionContextKey contextKey = "console_session"

// SessionMiddleware resolves the session named by the X-Session-ID header and
// stores it in the request context. Requests without a live session get 401.
func SessionMiddleware(sessions *app.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(SessionHeader)
			if raw == "" {
				http.Error(w, "Missing "+SessionHeader+" header", http.StatusUnauthorized)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "Invalid session id", http.StatusUnauthorized)
				return
			}
			session, err := sessions.Get(id)
			if err != nil {
				http.Error(w, "Session not found or expired", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession retrieves the session placed in the context by the middleware.
func GetSession(ctx context.Context) (*app.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*app.Session)
	return session, ok
}
