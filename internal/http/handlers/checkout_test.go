package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-gateway/internal/checkout"
	"github.com/glowbook/booking-gateway/internal/gateway"
)

func seedCart(t *testing.T, catalog *CartHandler) {
	t.Helper()
	body := strings.NewReader(`{"salonId":"1","serviceId":"1"}`)
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", body), "u1")
	rec := httptest.NewRecorder()
	catalog.AddItem(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	sched := strings.NewReader(`{"date":"2026-09-01","time":"11:00"}`)
	req = asUser(httptest.NewRequest(http.MethodPut, "/api/cart/schedule", sched), "u1")
	rec = httptest.NewRecorder()
	catalog.SetSchedule(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutLocalSuccess(t *testing.T) {
	fx := gateway.NewFixture()
	store := newCartStore(t)
	cartHandler := NewCartHandler(store, fx, availabilityResolver(fx), nil)
	seedCart(t, cartHandler)

	svc := checkout.NewService(fx, fx, nil, checkout.WithLocalSuccessFallback(true))
	h := NewCheckoutHandler(svc, store, nil)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/checkout", nil), "u1")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res checkout.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, checkout.StateLocalSuccess, res.State)
	assert.NotEmpty(t, res.BookingID)
	assert.Equal(t, 300.0, res.Amount)

	// Cart is cleared after a successful submission.
	req = asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), "u1")
	rec = httptest.NewRecorder()
	cartHandler.GetCart(rec, req)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestCheckoutSlotConflictMessageVerbatim(t *testing.T) {
	fx := gateway.NewFixture()
	store := newCartStore(t)
	cartHandler := NewCartHandler(store, fx, availabilityResolver(fx), nil)
	seedCart(t, cartHandler)

	// The slot gets taken between schedule selection and submit.
	fx.SeedBookedSlots("1", "2026-09-01", []string{"11:00"})

	svc := checkout.NewService(fx, fx, nil, checkout.WithLocalSuccessFallback(true))
	h := NewCheckoutHandler(svc, store, nil)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/checkout", nil), "u1")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Slot already taken", resp.Message)
}

func TestCheckoutEmptyCart(t *testing.T) {
	fx := gateway.NewFixture()
	store := newCartStore(t)
	svc := checkout.NewService(fx, fx, nil, checkout.WithLocalSuccessFallback(true))
	h := NewCheckoutHandler(svc, store, nil)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/checkout", nil), "u1")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Please select at least one service", resp.Message)
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	fx := gateway.NewFixture()
	store := newCartStore(t)
	svc := checkout.NewService(fx, fx, nil)
	h := NewCheckoutHandler(svc, store, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, "no session at all")
}

func TestCheckoutNoLinkWithoutFallback(t *testing.T) {
	fx := gateway.NewFixture()
	store := newCartStore(t)
	cartHandler := NewCartHandler(store, fx, availabilityResolver(fx), nil)
	seedCart(t, cartHandler)

	svc := checkout.NewService(fx, fx, nil)
	h := NewCheckoutHandler(svc, store, nil)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/checkout", nil), "u1")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	// Booking exists but the fixture issued no link: surfaced as a partial
	// failure with the booking ID attached.
	require.Equal(t, http.StatusBadGateway, rec.Code)
	var resp struct {
		BookingID string `json:"bookingId"`
		Message   string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.BookingID)
	assert.Contains(t, resp.Message, "retry payment")
}
