package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/session"
)

const (
	// AuthCookieName holds the opaque bearer token the gateway
	// expects. Its mere presence gates every mutating cart call.
	AuthCookieName = "storefront_token"

	// SessionCookieName identifies the visitor's in-memory session.
	SessionCookieName = "storefront_session"
)

// AuthTokenMiddleware copies the auth cookie's value into the request
// context. A missing cookie is not an error: downstream aggregates
// silently no-op without a credential.
func AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(AuthCookieName); err == nil {
			token = cookie.Value
		}

		ctx := context.WithValue(r.Context(), "auth_token", token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware resolves (or mints) the visitor's session and
// places it in the request context, refreshing the session cookie.
func SessionMiddleware(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				id = cookie.Value
			}

			sess := store.GetOrCreate(id)
			if sess.ID != id {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), "session", sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value("auth_token").(string); ok {
		return token
	}
	return ""
}

func getSessionFromContext(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value("session").(*session.Session); ok {
		return sess
	}
	return nil
}
