package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glowbook/booking-gateway/internal/availability"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

// AvailabilityHandler serves the half-hour slot grid for a salon and date.
type AvailabilityHandler struct {
	resolver *availability.Resolver
	logger   *logging.Logger
}

func NewAvailabilityHandler(resolver *availability.Resolver, logger *logging.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{
		resolver: resolver,
		logger:   logger.With("component", "availability_handler"),
	}
}

// GetAvailability handles GET /api/salons/{salonID}/availability?date=YYYY-MM-DD.
// The response echoes the requested date so a client that switched dates
// mid-flight can discard the stale grid.
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	salonID := chi.URLParam(r, "salonID")
	date := r.URL.Query().Get("date")
	if date == "" {
		writeMessage(w, http.StatusBadRequest, "Missing date parameter")
		return
	}

	day, err := h.resolver.Resolve(r.Context(), salonID, date)
	if err != nil {
		h.logger.Error("availability resolution failed",
			"salon_id", salonID, "date", date, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}
