package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glowbook/booking-gateway/internal/booking"
)

// Fixture is an in-memory implementation of the collaborator interfaces,
// backed by demo data. It stands in for the platform gateway in development
// and component tests; selection happens via DATA_SOURCE config, so the rest
// of the workflow is identical in both modes.
type Fixture struct {
	mu       sync.RWMutex
	salons   map[string]booking.Salon
	services map[string]booking.Service
	bookings map[string]booking.Booking
	bookedBy map[string][]string // "salonID|date" -> booked times
}

var (
	_ booking.SalonDirectory = (*Fixture)(nil)
	_ booking.ServiceCatalog = (*Fixture)(nil)
	_ booking.BookingService = (*Fixture)(nil)
	_ booking.PaymentService = (*Fixture)(nil)
)

// NewFixture creates a fixture data source seeded with one demo salon and
// its services.
func NewFixture() *Fixture {
	f := &Fixture{
		salons:   make(map[string]booking.Salon),
		services: make(map[string]booking.Service),
		bookings: make(map[string]booking.Booking),
		bookedBy: make(map[string][]string),
	}
	f.seed()
	return f
}

func (f *Fixture) seed() {
	salon := booking.Salon{
		ID:          "1",
		Name:        "Premium Salon & Spa",
		Address:     "123 Main Street, Tech Park",
		City:        "Baddi",
		Phone:       "9876543210",
		Email:       "salon@example.com",
		Rating:      4.5,
		Description: "Your perfect destination for beauty and wellness services",
		OpeningTime: "10:00",
		ClosingTime: "18:00",
	}
	f.salons[salon.ID] = salon

	services := []booking.Service{
		{ID: "1", SalonID: "1", Name: "Haircut", Category: "haircut", Price: 300, DurationMin: 30, Description: "Professional haircut"},
		{ID: "2", SalonID: "1", Name: "Facial", Category: "facial", Price: 500, DurationMin: 45, Description: "Relaxing facial"},
		{ID: "3", SalonID: "1", Name: "Hair Coloring", Category: "hair coloring", Price: 800, DurationMin: 60, Description: "Hair coloring service"},
		{ID: "4", SalonID: "1", Name: "Massage", Category: "massage", Price: 600, DurationMin: 60, Description: "Full body massage"},
		{ID: "5", SalonID: "1", Name: "Pedicure", Category: "pedicure", Price: 400, DurationMin: 45, Description: "Pedicure service"},
		{ID: "6", SalonID: "1", Name: "Manicure", Category: "manicure", Price: 350, DurationMin: 30, Description: "Manicure service"},
	}
	for _, s := range services {
		f.services[s.ID] = s
	}
}

// SeedBookedSlots marks times as already booked for a salon/date. Tests and
// demo setups use this to exercise slot-conflict display.
func (f *Fixture) SeedBookedSlots(salonID, date string, times []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := salonID + "|" + date
	f.bookedBy[key] = append(f.bookedBy[key], times...)
}

func (f *Fixture) GetSalonByID(ctx context.Context, id string) (*booking.Salon, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	salon, ok := f.salons[id]
	if !ok {
		return nil, fmt.Errorf("%w: salon %s", ErrNotFound, id)
	}
	return &salon, nil
}

func (f *Fixture) GetSalons(ctx context.Context, page, limit int, search string) ([]booking.Salon, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	search = strings.ToLower(search)
	out := make([]booking.Salon, 0, len(f.salons))
	for _, s := range f.salons {
		if search != "" && !strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.City), search) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fixture) GetServiceByID(ctx context.Context, id string) (*booking.Service, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	svc, ok := f.services[id]
	if !ok {
		return nil, fmt.Errorf("%w: service %s", ErrNotFound, id)
	}
	return &svc, nil
}

func (f *Fixture) GetServicesBySalonID(ctx context.Context, salonID string) ([]booking.Service, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]booking.Service, 0, len(f.services))
	for _, s := range f.services {
		if s.SalonID == salonID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Fixture) GetBookedSlots(ctx context.Context, salonID, date string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	times := f.bookedBy[salonID+"|"+date]
	out := make([]string, len(times))
	copy(out, times)
	return out, nil
}

func (f *Fixture) CreateBooking(ctx context.Context, req booking.CreateBookingRequest) (*booking.Booking, error) {
	svc, err := f.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := req.SalonID + "|" + req.Date
	for _, t := range f.bookedBy[key] {
		if t == req.Time {
			return nil, &UpstreamError{Status: 409, Message: "Slot already taken"}
		}
	}

	b := booking.Booking{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		SalonID:    req.SalonID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Time:       req.Time,
		Status:     booking.StatusPending,
		TotalPrice: svc.Price,
		Notes:      req.Notes,
		CreatedAt:  time.Now().UTC(),
	}
	f.bookings[b.ID] = b
	f.bookedBy[key] = append(f.bookedBy[key], req.Time)
	return &b, nil
}

func (f *Fixture) GetBookingByID(ctx context.Context, id string) (*booking.Booking, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	return &b, nil
}

// CreatePaymentLink returns no checkout URL: the fixture has no payment
// processor, which routes the flow to the local success view.
func (f *Fixture) CreatePaymentLink(ctx context.Context, req booking.CreatePaymentLinkRequest) (*booking.PaymentLink, error) {
	if req.BookingID == "" {
		return nil, &UpstreamError{Status: 400, Message: "bookingId is required"}
	}
	return &booking.PaymentLink{PaymentID: "fixture:" + req.BookingID}, nil
}
