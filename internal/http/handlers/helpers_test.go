package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-gateway/internal/availability"
	"github.com/glowbook/booking-gateway/internal/cart"
	"github.com/glowbook/booking-gateway/internal/gateway"
	"github.com/glowbook/booking-gateway/internal/http/middleware"
	"github.com/glowbook/booking-gateway/internal/session"
)

// withURLParam injects a chi route parameter without mounting a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asUser attaches an authenticated session, which also keys the cart.
func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(session.WithSession(r.Context(), session.Session{
		UserID: userID,
		Role:   session.RoleCustomer,
		Token:  "tok",
	}))
}

// asAnon attaches a browsing-session ID, the way the BrowsingSession
// middleware would for a not-yet-logged-in visitor.
func asAnon(r *http.Request, sid string) *http.Request {
	return r.WithContext(middleware.WithBrowsingSessionID(r.Context(), sid))
}

func newCartStore(t *testing.T) *cart.Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return cart.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)
}

func availabilityResolver(fx *gateway.Fixture) *availability.Resolver {
	return availability.NewResolver(fx, fx, nil)
}
