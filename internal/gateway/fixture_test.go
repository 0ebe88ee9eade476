package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/glowbook/booking-gateway/internal/booking"
)

func TestFixtureSeedData(t *testing.T) {
	f := NewFixture()
	ctx := context.Background()

	salon, err := f.GetSalonByID(ctx, "1")
	if err != nil {
		t.Fatalf("GetSalonByID: %v", err)
	}
	if salon.OpeningTime != "10:00" || salon.ClosingTime != "18:00" {
		t.Fatalf("unexpected hours: %s-%s", salon.OpeningTime, salon.ClosingTime)
	}

	services, err := f.GetServicesBySalonID(ctx, "1")
	if err != nil {
		t.Fatalf("GetServicesBySalonID: %v", err)
	}
	if len(services) != 6 {
		t.Fatalf("expected 6 seeded services, got %d", len(services))
	}

	if _, err := f.GetSalonByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFixtureBookingConflict(t *testing.T) {
	f := NewFixture()
	ctx := context.Background()
	f.SeedBookedSlots("1", "2026-09-01", []string{"11:00"})

	_, err := f.CreateBooking(ctx, booking.CreateBookingRequest{
		CustomerID: "u1", SalonID: "1", ServiceID: "1",
		Date: "2026-09-01", Time: "11:00",
	})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.Message != "Slot already taken" {
		t.Fatalf("expected slot conflict, got %v", err)
	}
}

func TestFixtureBookingLifecycle(t *testing.T) {
	f := NewFixture()
	ctx := context.Background()

	created, err := f.CreateBooking(ctx, booking.CreateBookingRequest{
		CustomerID: "u1", SalonID: "1", ServiceID: "2",
		Date: "2026-09-01", Time: "12:00", Notes: "first visit",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if created.Status != booking.StatusPending {
		t.Fatalf("expected PENDING, got %s", created.Status)
	}
	if created.TotalPrice != 500 {
		t.Fatalf("expected price from catalog, got %v", created.TotalPrice)
	}

	got, err := f.GetBookingByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetBookingByID: %v", err)
	}
	if got.Notes != "first visit" {
		t.Fatalf("unexpected booking: %+v", got)
	}

	// The new booking's time must now show as booked.
	times, err := f.GetBookedSlots(ctx, "1", "2026-09-01")
	if err != nil {
		t.Fatalf("GetBookedSlots: %v", err)
	}
	if len(times) != 1 || times[0] != "12:00" {
		t.Fatalf("unexpected booked times: %v", times)
	}
}

func TestFixturePaymentLinkHasNoURL(t *testing.T) {
	f := NewFixture()
	link, err := f.CreatePaymentLink(context.Background(), booking.CreatePaymentLinkRequest{
		BookingID: "B1", Amount: 300, PaymentMethod: "STRIPE",
	})
	if err != nil {
		t.Fatalf("CreatePaymentLink: %v", err)
	}
	if link.URL != "" {
		t.Fatalf("fixture must not return a checkout link, got %q", link.URL)
	}
}
