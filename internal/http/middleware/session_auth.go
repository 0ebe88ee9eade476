package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/glowbook/booking-gateway/internal/session"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

const browsingCookie = "gb_session"

type contextKey string

const browsingSessionKey contextKey = "browsingSession"

// SessionAuth parses a bearer token into a session and attaches it to the
// request context. Requests without an Authorization header pass through
// unauthenticated; a present-but-invalid token is rejected outright so a
// stale login never silently browses as a guest.
func SessionAuth(secret string, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			if raw == auth {
				unauthorized(w, "Malformed authorization header")
				return
			}
			sess, err := session.ParseToken(raw, secret)
			if err != nil {
				if !errors.Is(err, session.ErrInvalidToken) {
					logger.Error("session token parse failed", "error", err)
				}
				unauthorized(w, "Session expired, please log in again")
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RequireSession rejects unauthenticated requests. Mount after SessionAuth.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			unauthorized(w, "Please log in to continue")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BrowsingSession guarantees every request carries a browsing-session ID,
// issuing a cookie on first contact. The ID keys the cart, so service
// selection works before the customer has logged in.
func BrowsingSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(browsingCookie); err == nil && c.Value != "" {
			sid = c.Value
		} else {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     browsingCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithBrowsingSessionID(r.Context(), sid)))
	})
}

// WithBrowsingSessionID installs a browsing-session ID in the context.
func WithBrowsingSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, browsingSessionKey, sid)
}

// BrowsingSessionID returns the browsing-session ID set by BrowsingSession.
func BrowsingSessionID(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(browsingSessionKey).(string)
	return sid, ok && sid != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"message": message,
		"action":  "login",
	})
}
