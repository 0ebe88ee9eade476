package handlers

import (
	"errors"
	"net/http"

	"github.com/glowbook/booking-gateway/internal/cart"
	"github.com/glowbook/booking-gateway/internal/checkout"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

// CheckoutHandler submits the session cart as a booking plus payment link.
type CheckoutHandler struct {
	service *checkout.Service
	store   *cart.Store
	logger  *logging.Logger
}

func NewCheckoutHandler(service *checkout.Service, store *cart.Store, logger *logging.Logger) *CheckoutHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CheckoutHandler{
		service: service,
		store:   store,
		logger:  logger.With("component", "checkout_handler"),
	}
}

// Submit handles POST /api/checkout. On success the cart is cleared and the
// terminal state returned: a redirect URL when the payment processor issued
// a checkout link, otherwise the booking ID for the local confirmation view.
//
// When the booking was created but the payment link failed, the response
// carries the booking ID with a 502 so the frontend can tell the user the
// booking exists and payment must be retried.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	key, c, err := loadCart(r, h.store)
	if err != nil {
		h.logger.Error("failed to load cart", "error", err)
		writeError(w, err)
		return
	}

	res, err := h.service.Submit(r.Context(), c)
	if err != nil {
		if res != nil && res.BookingID != "" {
			// Booking exists, payment link failed.
			h.logger.Error("checkout ended with orphaned booking",
				"booking_id", res.BookingID, "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"state":     res.State,
				"bookingId": res.BookingID,
				"message":   "Your booking was created but payment could not be started, please retry payment",
			})
			return
		}
		if !isValidationFailure(err) {
			h.logger.Error("checkout failed", "error", err)
		}
		writeError(w, err)
		return
	}

	if err := h.store.Clear(r.Context(), key); err != nil {
		// The submission already succeeded; a stale cart is the lesser evil.
		h.logger.Error("failed to clear cart after checkout", "error", err)
	}

	writeJSON(w, http.StatusOK, res)
}

func isValidationFailure(err error) bool {
	var vErr *checkout.ValidationError
	return errors.As(err, &vErr) ||
		errors.Is(err, checkout.ErrNotAuthenticated) ||
		errors.Is(err, checkout.ErrSubmitInFlight)
}
