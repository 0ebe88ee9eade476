// Package availability computes the bookable time-slot grid for a salon and
// date: a fixed half-hour grid between the salon's opening and closing times,
// with times already booked upstream marked unavailable.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/glowbook/booking-gateway/internal/booking"
	"github.com/glowbook/booking-gateway/internal/gateway"
	"github.com/glowbook/booking-gateway/internal/observability/metrics"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

const (
	slotInterval = 30 * time.Minute

	defaultOpeningTime = "09:00"
	defaultClosingTime = "18:00"
)

var tracer = otel.Tracer("gateway.internal.availability")

// ErrInvalidDate reports a date that is not "YYYY-MM-DD".
var ErrInvalidDate = errors.New("availability: invalid date")

// Day is the resolved grid for one salon and date. Date is echoed so callers
// that switched dates mid-flight can discard a stale resolution.
type Day struct {
	SalonID  string             `json:"salonId"`
	Date     string             `json:"date"`
	Slots    []booking.TimeSlot `json:"slots"`
	Degraded bool               `json:"degraded,omitempty"`
}

// Slot looks up one time on the grid.
func (d *Day) Slot(hhmm string) (booking.TimeSlot, bool) {
	for _, s := range d.Slots {
		if s.Time == hhmm {
			return s, true
		}
	}
	return booking.TimeSlot{}, false
}

// Resolver merges a salon's business-hours grid with the booked times
// reported by the booking service.
type Resolver struct {
	salons   booking.SalonDirectory
	bookings booking.BookingService
	logger   *logging.Logger
	metrics  *metrics.FlowMetrics

	// degradeOnError keeps the user unblocked when the booked-slots fetch
	// fails: the full grid is returned with every slot available and the
	// failure is logged, not surfaced.
	degradeOnError bool

	// Fallback window when a salon publishes no usable hours.
	defaultOpening string
	defaultClosing string
}

type Option func(*Resolver)

// WithDegradeOnError toggles the optimistic fallback (default on).
func WithDegradeOnError(enabled bool) Option {
	return func(r *Resolver) { r.degradeOnError = enabled }
}

// WithMetrics records degraded resolutions.
func WithMetrics(m *metrics.FlowMetrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithDefaultHours overrides the fallback business-hours window. Unusable
// values are ignored and the 09:00-18:00 defaults stay.
func WithDefaultHours(opening, closing string) Option {
	return func(r *Resolver) {
		if o, c, ok := usableHours(opening, closing); ok {
			r.defaultOpening, r.defaultClosing = o, c
		}
	}
}

func NewResolver(salons booking.SalonDirectory, bookings booking.BookingService, logger *logging.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	r := &Resolver{
		salons:         salons,
		bookings:       bookings,
		logger:         logger.With("component", "availability"),
		degradeOnError: true,
		defaultOpening: defaultOpeningTime,
		defaultClosing: defaultClosingTime,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the slot grid for salonID on date ("YYYY-MM-DD").
//
// The salon lookup supplies opening/closing times; when the salon cannot be
// fetched or publishes no usable hours, the default 09:00-18:00 window is
// used. A booked-slots fetch failure degrades to an all-available grid when
// the resolver is configured to, and is an error otherwise.
func (r *Resolver) Resolve(ctx context.Context, salonID, date string) (*Day, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	ctx, span := tracer.Start(ctx, "availability.resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.id", salonID),
		attribute.String("availability.date", date),
	)

	opening, closing := r.defaultOpening, r.defaultClosing
	if salon, err := r.salons.GetSalonByID(ctx, salonID); err == nil {
		if o, c, ok := usableHours(salon.OpeningTime, salon.ClosingTime); ok {
			opening, closing = o, c
		}
	} else {
		r.logger.Warn("salon lookup failed, using default hours",
			"salon_id", salonID, "error", err)
	}

	day := &Day{SalonID: salonID, Date: date}

	booked := map[string]bool{}
	times, err := r.bookings.GetBookedSlots(ctx, salonID, date)
	if err != nil {
		// Degrading is for network and server failures only. An expired
		// session must surface so the caller is sent back to login, never
		// papered over with an optimistic grid.
		if errors.Is(err, gateway.ErrSessionInvalid) || !r.degradeOnError {
			return nil, fmt.Errorf("availability: booked slots for salon %s on %s: %w", salonID, date, err)
		}
		span.RecordError(err)
		r.logger.Warn("booked-slots fetch failed, serving optimistic grid",
			"salon_id", salonID, "date", date, "error", err)
		r.metrics.ObserveAvailabilityDegrade()
		day.Degraded = true
	} else {
		for _, t := range times {
			booked[t] = true
		}
	}

	day.Slots = buildGrid(opening, closing, booked)
	return day, nil
}

// buildGrid produces half-hour slots from opening (inclusive) to closing
// (exclusive), each marked unavailable when its time is in the booked set.
func buildGrid(opening, closing string, booked map[string]bool) []booking.TimeSlot {
	start, _ := time.Parse("15:04", opening)
	end, _ := time.Parse("15:04", closing)

	var slots []booking.TimeSlot
	for cur := start; cur.Before(end); cur = cur.Add(slotInterval) {
		hhmm := cur.Format("15:04")
		slots = append(slots, booking.TimeSlot{
			Time:      hhmm,
			Available: !booked[hhmm],
		})
	}
	return slots
}

// usableHours validates "HH:MM" opening/closing strings; an unparsable or
// inverted window falls back to the defaults.
func usableHours(opening, closing string) (string, string, bool) {
	o, err := time.Parse("15:04", opening)
	if err != nil {
		return "", "", false
	}
	c, err := time.Parse("15:04", closing)
	if err != nil {
		return "", "", false
	}
	if !o.Before(c) {
		return "", "", false
	}
	return opening, closing, true
}
