// Package checkout sequences booking creation and payment-link creation for
// a completed selection, tracking the submission through an explicit state
// machine so partial failure is visible: a booking that exists but could not
// get a payment link is reported as such, never rolled back silently.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/glowbook/booking-gateway/internal/booking"
	"github.com/glowbook/booking-gateway/internal/cart"
	"github.com/glowbook/booking-gateway/internal/observability/metrics"
	"github.com/glowbook/booking-gateway/internal/session"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

var tracer = otel.Tracer("gateway.internal.checkout")

// ErrNotAuthenticated is returned when no session is present; handlers route
// the user to login instead of submitting.
var ErrNotAuthenticated = errors.New("checkout: authentication required")

// ErrSubmitInFlight is returned when the customer already has a submission
// running. The first submission proceeds; this one does nothing.
var ErrSubmitInFlight = errors.New("checkout: submission already in progress")

// ErrPaymentLinkMissing is returned when the payment service answers without
// a checkout link and the local-success fallback is not allowed.
var ErrPaymentLinkMissing = errors.New("checkout: payment service returned no checkout link")

// ValidationError reports a submission rejected before any collaborator
// call. The message is shown inline; the form stays populated for retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Result is the outcome of one submission. BookingID is set as soon as the
// booking service accepted the booking, so callers can tell the user the
// booking exists even when payment-link creation failed afterwards.
type Result struct {
	State       State   `json:"state"`
	BookingID   string  `json:"bookingId,omitempty"`
	RedirectURL string  `json:"redirectUrl,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	// ConfirmationURL points at the local success view when no payment
	// redirect happened.
	ConfirmationURL string `json:"confirmationUrl,omitempty"`
	// Message is the user-facing failure description when State is error.
	Message string `json:"message,omitempty"`
}

// Service runs the booking-payment sequence against the collaborators.
type Service struct {
	bookings booking.BookingService
	payments booking.PaymentService
	guard    *SubmitGuard
	logger   *logging.Logger
	metrics  *metrics.FlowMetrics

	paymentMethod    string
	confirmationBase string
	// allowLocalSuccess permits finishing without a checkout link. It mirrors
	// test/demo configurations where no payment processor is wired up and
	// must stay off when a real integration is configured.
	allowLocalSuccess bool
}

type Option func(*Service)

// WithSubmitGuard installs the duplicate-submission lock.
func WithSubmitGuard(g *SubmitGuard) Option {
	return func(s *Service) { s.guard = g }
}

// WithMetrics records terminal states.
func WithMetrics(m *metrics.FlowMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPaymentMethod overrides the payment method sent to the payment
// service (default "STRIPE").
func WithPaymentMethod(method string) Option {
	return func(s *Service) {
		if method != "" {
			s.paymentMethod = method
		}
	}
}

// WithLocalSuccessFallback permits the no-link local success path.
func WithLocalSuccessFallback(allowed bool) Option {
	return func(s *Service) { s.allowLocalSuccess = allowed }
}

// WithConfirmationBase sets the public base URL used to build the local
// success confirmation link.
func WithConfirmationBase(baseURL string) Option {
	return func(s *Service) { s.confirmationBase = strings.TrimRight(baseURL, "/") }
}

func NewService(bookings booking.BookingService, payments booking.PaymentService, logger *logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		bookings:      bookings,
		payments:      payments,
		logger:        logger.With("component", "checkout"),
		paymentMethod: "STRIPE",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs the full sequence for the given cart. The price is captured
// from the cart at this moment and reused for the payment link; it is
// deliberately not re-fetched between the two calls, so a catalog price
// change mid-flow cannot produce a booking and a payment that disagree.
//
// Validation failures return a *ValidationError (or ErrNotAuthenticated)
// before any collaborator is called. Collaborator failures return the
// partial Result alongside the error.
func (s *Service) Submit(ctx context.Context, c *cart.Cart) (*Result, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	ok, err := s.guard.Acquire(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubmitInFlight
	}
	defer s.guard.Release(ctx, sess.UserID)

	ctx, span := tracer.Start(ctx, "checkout.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.id", c.SalonID),
		attribute.String("booking.date", c.Date),
		attribute.String("booking.time", c.Time),
	)

	res := &Result{State: StateSubmitting, Amount: c.Total()}

	start := time.Now()
	created, err := s.bookings.CreateBooking(ctx, booking.CreateBookingRequest{
		CustomerID: sess.UserID,
		SalonID:    c.SalonID,
		ServiceID:  c.Items[0].Service.ID,
		Date:       c.Date,
		Time:       c.Time,
		Notes:      c.Notes,
	})
	s.metrics.ObserveCollaboratorLatency("create_booking", time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		s.logger.Error("booking creation failed",
			"salon_id", c.SalonID, "date", c.Date, "time", c.Time, "error", err)
		return s.fail(res, err), err
	}

	res.State = StateBookingCreated
	res.BookingID = created.ID
	s.logger.Info("booking created",
		"booking_id", created.ID, "salon_id", c.SalonID, "amount", res.Amount)

	start = time.Now()
	link, err := s.payments.CreatePaymentLink(ctx, booking.CreatePaymentLinkRequest{
		BookingID:     created.ID,
		Amount:        res.Amount,
		PaymentMethod: s.paymentMethod,
	})
	s.metrics.ObserveCollaboratorLatency("create_payment_link", time.Since(start).Seconds())
	if err != nil {
		// The booking stays in place; there is no compensation call. The
		// caller tells the user the booking exists and payment must be
		// retried.
		span.RecordError(err)
		s.logger.Error("payment link creation failed, booking left pending",
			"booking_id", created.ID, "error", err)
		return s.fail(res, err), err
	}

	res.State = StatePaymentLinkCreated

	if link.URL != "" {
		res.State = StateRedirected
		res.RedirectURL = link.URL
		s.metrics.ObserveCheckout(string(res.State))
		return res, nil
	}

	if !s.allowLocalSuccess {
		err := ErrPaymentLinkMissing
		span.RecordError(err)
		s.logger.Error("no checkout link and local success disabled", "booking_id", created.ID)
		return s.fail(res, err), err
	}

	res.State = StateLocalSuccess
	if s.confirmationBase != "" {
		res.ConfirmationURL = s.confirmationBase + "/payment-success/" + created.ID
	}
	s.metrics.ObserveCheckout(string(res.State))
	return res, nil
}

func (s *Service) fail(res *Result, err error) *Result {
	res.State = StateError
	res.Message = err.Error()
	s.metrics.ObserveCheckout(string(StateError))
	return res
}

func validate(c *cart.Cart) error {
	switch {
	case c == nil || c.Empty():
		return &ValidationError{Field: "cart", Message: "Please select at least one service"}
	case c.Date == "":
		return &ValidationError{Field: "date", Message: "Please select a date"}
	case c.Time == "":
		return &ValidationError{Field: "time", Message: "Please select a time slot"}
	}
	return nil
}
