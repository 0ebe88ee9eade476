package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/glowbook/booking-gateway/internal/booking"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

// SalonHandler serves the salon and service reads the booking view needs.
type SalonHandler struct {
	salons   booking.SalonDirectory
	catalog  booking.ServiceCatalog
	bookings booking.BookingService
	logger   *logging.Logger
}

func NewSalonHandler(salons booking.SalonDirectory, catalog booking.ServiceCatalog, bookings booking.BookingService, logger *logging.Logger) *SalonHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SalonHandler{
		salons:   salons,
		catalog:  catalog,
		bookings: bookings,
		logger:   logger.With("component", "salon_handler"),
	}
}

// ListSalons handles GET /api/salons with optional page, limit and search
// query parameters.
func (h *SalonHandler) ListSalons(w http.ResponseWriter, r *http.Request) {
	page, limit := 1, 20
	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			page = n
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	search := r.URL.Query().Get("search")

	salons, err := h.salons.GetSalons(r.Context(), page, limit, search)
	if err != nil {
		h.logger.Error("failed to list salons", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"salons": salons})
}

// GetSalon handles GET /api/salons/{salonID}.
func (h *SalonHandler) GetSalon(w http.ResponseWriter, r *http.Request) {
	salonID := chi.URLParam(r, "salonID")
	salon, err := h.salons.GetSalonByID(r.Context(), salonID)
	if err != nil {
		h.logger.Error("failed to fetch salon", "salon_id", salonID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, salon)
}

// ListServices handles GET /api/salons/{salonID}/services.
func (h *SalonHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	salonID := chi.URLParam(r, "salonID")
	services, err := h.catalog.GetServicesBySalonID(r.Context(), salonID)
	if err != nil {
		h.logger.Error("failed to list services", "salon_id", salonID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// GetBooking handles GET /api/bookings/{bookingID}, the confirmation view
// projection after checkout.
func (h *SalonHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	b, err := h.bookings.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		h.logger.Error("failed to fetch booking", "booking_id", bookingID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
