package checkout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-gateway/internal/booking"
	"github.com/glowbook/booking-gateway/internal/cart"
	"github.com/glowbook/booking-gateway/internal/session"
)

type stubBookings struct {
	calls   int32
	booking *booking.Booking
	err     error
	block   chan struct{} // when set, CreateBooking waits until closed
}

func (s *stubBookings) CreateBooking(ctx context.Context, req booking.CreateBookingRequest) (*booking.Booking, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.booking != nil {
		return s.booking, nil
	}
	return &booking.Booking{ID: "B1", Status: booking.StatusPending}, nil
}

func (s *stubBookings) GetBookedSlots(ctx context.Context, salonID, date string) ([]string, error) {
	return nil, nil
}

func (s *stubBookings) GetBookingByID(ctx context.Context, id string) (*booking.Booking, error) {
	return nil, errors.New("not implemented")
}

type stubPayments struct {
	calls int32
	link  *booking.PaymentLink
	err   error
}

func (s *stubPayments) CreatePaymentLink(ctx context.Context, req booking.CreatePaymentLinkRequest) (*booking.PaymentLink, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	if s.link != nil {
		return s.link, nil
	}
	return &booking.PaymentLink{}, nil
}

func authedCtx() context.Context {
	return session.WithSession(context.Background(), session.Session{
		UserID: "u1", Role: session.RoleCustomer, Token: "tok",
	})
}

func readyCart() *cart.Cart {
	c := cart.New("s1")
	c.Add(booking.Service{ID: "svc1", SalonID: "s1", Name: "Haircut", Price: 300})
	c.SetSchedule("2026-09-01", "11:00")
	return c
}

func TestSubmitSuccessRedirects(t *testing.T) {
	bookings := &stubBookings{}
	payments := &stubPayments{link: &booking.PaymentLink{URL: "https://pay/x"}}
	svc := NewService(bookings, payments, nil)

	res, err := svc.Submit(authedCtx(), readyCart())
	require.NoError(t, err)
	assert.Equal(t, StateRedirected, res.State)
	assert.Equal(t, "https://pay/x", res.RedirectURL)
	assert.Equal(t, "B1", res.BookingID)
	assert.Equal(t, 300.0, res.Amount)
	assert.NotEqual(t, StateLocalSuccess, res.State)
}

func TestSubmitNoLinkLocalSuccess(t *testing.T) {
	bookings := &stubBookings{}
	payments := &stubPayments{link: &booking.PaymentLink{}}
	svc := NewService(bookings, payments, nil, WithLocalSuccessFallback(true))

	res, err := svc.Submit(authedCtx(), readyCart())
	require.NoError(t, err)
	assert.Equal(t, StateLocalSuccess, res.State)
	assert.Equal(t, "B1", res.BookingID)
	assert.Empty(t, res.RedirectURL)
}

func TestSubmitLocalSuccessConfirmationURL(t *testing.T) {
	bookings := &stubBookings{}
	payments := &stubPayments{link: &booking.PaymentLink{}}
	svc := NewService(bookings, payments, nil,
		WithLocalSuccessFallback(true),
		WithConfirmationBase("https://glowbook.example/"))

	res, err := svc.Submit(authedCtx(), readyCart())
	require.NoError(t, err)
	assert.Equal(t, "https://glowbook.example/payment-success/B1", res.ConfirmationURL)
}

func TestSubmitNoLinkFailsWhenFallbackDisabled(t *testing.T) {
	bookings := &stubBookings{}
	payments := &stubPayments{link: &booking.PaymentLink{}}
	svc := NewService(bookings, payments, nil)

	res, err := svc.Submit(authedCtx(), readyCart())
	require.ErrorIs(t, err, ErrPaymentLinkMissing)
	assert.Equal(t, StateError, res.State)
	assert.Equal(t, "B1", res.BookingID, "booking stays in place")
}

func TestSubmitBookingFailureSurfacesMessageVerbatim(t *testing.T) {
	bookings := &stubBookings{err: errors.New("Slot already taken")}
	payments := &stubPayments{}
	svc := NewService(bookings, payments, nil)

	res, err := svc.Submit(authedCtx(), readyCart())
	require.Error(t, err)
	assert.Equal(t, StateError, res.State)
	assert.Equal(t, "Slot already taken", res.Message)
	assert.Empty(t, res.BookingID)
	assert.Zero(t, atomic.LoadInt32(&payments.calls), "no payment call after booking failure")
}

func TestSubmitPaymentFailureLeavesBooking(t *testing.T) {
	bookings := &stubBookings{}
	payments := &stubPayments{err: errors.New("payment service unavailable")}
	svc := NewService(bookings, payments, nil)

	res, err := svc.Submit(authedCtx(), readyCart())
	require.Error(t, err)
	assert.Equal(t, StateError, res.State)
	assert.Equal(t, "B1", res.BookingID, "created booking must be reported despite payment failure")
	assert.Equal(t, "payment service unavailable", res.Message)
}

func TestSubmitValidationBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name  string
		setup func() *cart.Cart
		field string
	}{
		{"empty cart", func() *cart.Cart {
			c := cart.New("s1")
			c.SetSchedule("2026-09-01", "11:00")
			return c
		}, "cart"},
		{"no date", func() *cart.Cart {
			c := cart.New("s1")
			c.Add(booking.Service{ID: "svc1", Price: 300})
			return c
		}, "date"},
		{"no time", func() *cart.Cart {
			c := cart.New("s1")
			c.Add(booking.Service{ID: "svc1", Price: 300})
			c.SetSchedule("2026-09-01", "")
			return c
		}, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &stubBookings{}
			payments := &stubPayments{}
			svc := NewService(bookings, payments, nil)

			_, err := svc.Submit(authedCtx(), tt.setup())
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Zero(t, atomic.LoadInt32(&bookings.calls), "validation must precede any network call")
			assert.Zero(t, atomic.LoadInt32(&payments.calls))
		})
	}
}

func TestSubmitRequiresSession(t *testing.T) {
	bookings := &stubBookings{}
	svc := NewService(bookings, &stubPayments{}, nil)

	_, err := svc.Submit(context.Background(), readyCart())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, atomic.LoadInt32(&bookings.calls))
}

func TestDoubleSubmitCreatesOneBooking(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	block := make(chan struct{})
	bookings := &stubBookings{block: block}
	payments := &stubPayments{link: &booking.PaymentLink{URL: "https://pay/x"}}
	svc := NewService(bookings, payments, nil,
		WithSubmitGuard(NewSubmitGuard(redisClient, time.Minute)))

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(authedCtx(), readyCart())
		firstDone <- err
	}()

	// Wait until the first submission is inside CreateBooking, then submit
	// again while it is still in flight.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&bookings.calls) == 1
	}, time.Second, 5*time.Millisecond)

	_, err = svc.Submit(authedCtx(), readyCart())
	require.ErrorIs(t, err, ErrSubmitInFlight)

	close(block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, int32(1), atomic.LoadInt32(&bookings.calls), "exactly one booking call")
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateRedirected.Terminal())
	assert.True(t, StateLocalSuccess.Terminal())
	assert.True(t, StateError.Terminal())
	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateSubmitting.Terminal())
	assert.False(t, StateBookingCreated.Terminal())
	assert.False(t, StatePaymentLinkCreated.Terminal())
}
