// Package session carries the authenticated customer identity through the
// request context. There is no fabricated default identity: when no valid
// bearer token is presented the context simply has no session, and workflow
// operations that need one fail validation.
package session

import "context"

// Role is the platform user role.
type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleSalonOwner Role = "SALON_OWNER"
	RoleAdmin      Role = "ADMIN"
)

// Session identifies the authenticated user for one request.
type Session struct {
	UserID string
	Role   Role
	// Token is the raw bearer token, forwarded to the platform gateway.
	Token string
}

type ctxKey string

const sessionKey ctxKey = "gateway.session"

// WithSession stores the session in context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the session if present.
func FromContext(ctx context.Context) (Session, bool) {
	val := ctx.Value(sessionKey)
	if val == nil {
		return Session{}, false
	}
	s, ok := val.(Session)
	return s, ok && s.UserID != ""
}
