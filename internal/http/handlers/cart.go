package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glowbook/booking-gateway/internal/availability"
	"github.com/glowbook/booking-gateway/internal/booking"
	"github.com/glowbook/booking-gateway/internal/cart"
	"github.com/glowbook/booking-gateway/internal/http/middleware"
	"github.com/glowbook/booking-gateway/internal/session"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

// CartHandler manages the session cart: adding and removing services,
// picking the date and time slot, and clearing out.
type CartHandler struct {
	store    *cart.Store
	catalog  booking.ServiceCatalog
	resolver *availability.Resolver
	logger   *logging.Logger
}

func NewCartHandler(store *cart.Store, catalog booking.ServiceCatalog, resolver *availability.Resolver, logger *logging.Logger) *CartHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CartHandler{
		store:    store,
		catalog:  catalog,
		resolver: resolver,
		logger:   logger.With("component", "cart_handler"),
	}
}

// cartView is the cart as the frontend sees it, with the running total.
type cartView struct {
	*cart.Cart
	Total float64 `json:"total"`
}

func view(c *cart.Cart) cartView {
	return cartView{Cart: c, Total: c.Total()}
}

// cartKey identifies whose cart this request touches: the logged-in
// customer's, or the anonymous browsing session's.
func cartKey(r *http.Request) (string, bool) {
	if sess, ok := session.FromContext(r.Context()); ok {
		return "user:" + sess.UserID, true
	}
	if sid, ok := middleware.BrowsingSessionID(r.Context()); ok {
		return "anon:" + sid, true
	}
	return "", false
}

// loadCart loads the request's cart. A cart built before login is adopted
// into the customer's key on first authenticated access, so logging in
// mid-selection does not lose the services already picked.
func loadCart(r *http.Request, store *cart.Store) (string, *cart.Cart, error) {
	key, ok := cartKey(r)
	if !ok {
		return "", nil, errNoSession
	}
	c, err := store.Load(r.Context(), key)
	if err != nil || c != nil {
		return key, c, err
	}

	if _, authed := session.FromContext(r.Context()); !authed {
		return key, nil, nil
	}
	sid, ok := middleware.BrowsingSessionID(r.Context())
	if !ok {
		return key, nil, nil
	}
	anonKey := "anon:" + sid
	c, err = store.Load(r.Context(), anonKey)
	if err != nil || c == nil {
		return key, nil, err
	}
	if err := store.Save(r.Context(), key, c); err != nil {
		return key, nil, err
	}
	if err := store.Clear(r.Context(), anonKey); err != nil {
		// The adopted copy is authoritative; a leftover anonymous cart
		// just expires with its TTL.
		return key, c, nil
	}
	return key, c, nil
}

// GetCart handles GET /api/cart. A session with no cart yet gets an empty
// one rather than a 404, so the frontend needs no special case.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	_, c, err := loadCart(r, h.store)
	if err != nil {
		h.logger.Error("failed to load cart", "error", err)
		writeError(w, err)
		return
	}
	if c == nil {
		c = cart.New("")
	}
	writeJSON(w, http.StatusOK, view(c))
}

type addItemRequest struct {
	SalonID   string `json:"salonId"`
	ServiceID string `json:"serviceId"`
}

// AddItem handles POST /api/cart/items. Adding a service from a different
// salon than the current cart's starts a fresh cart: a booking spans one
// salon only.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ServiceID == "" {
		writeMessage(w, http.StatusBadRequest, "Missing serviceId")
		return
	}

	svc, err := h.catalog.GetServiceByID(r.Context(), req.ServiceID)
	if err != nil {
		h.logger.Error("failed to fetch service", "service_id", req.ServiceID, "error", err)
		writeError(w, err)
		return
	}
	if req.SalonID != "" && svc.SalonID != req.SalonID {
		writeMessage(w, http.StatusBadRequest, "Service does not belong to this salon")
		return
	}

	key, c, err := loadCart(r, h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil || c.SalonID != svc.SalonID {
		c = cart.New(svc.SalonID)
	}
	c.Add(*svc)

	if err := h.store.Save(r.Context(), key, c); err != nil {
		h.logger.Error("failed to save cart", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view(c))
}

// RemoveItem handles DELETE /api/cart/items/{serviceID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceID")

	key, c, err := loadCart(r, h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil {
		writeMessage(w, http.StatusNotFound, "Cart is empty")
		return
	}
	c.Remove(serviceID)

	if err := h.store.Save(r.Context(), key, c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view(c))
}

type scheduleRequest struct {
	Date  string `json:"date"`
	Time  string `json:"time,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// SetSchedule handles PUT /api/cart/schedule. A requested time is checked
// against the availability grid so a slot booked since the grid was shown
// is rejected here rather than at submit.
func (h *CartHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Date == "" {
		writeMessage(w, http.StatusBadRequest, "Missing date")
		return
	}

	key, c, err := loadCart(r, h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil || c.Empty() {
		writeMessage(w, http.StatusBadRequest, "Please select at least one service")
		return
	}

	if req.Time != "" {
		day, err := h.resolver.Resolve(r.Context(), c.SalonID, req.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		slot, ok := day.Slot(req.Time)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "Time is outside business hours")
			return
		}
		if !slot.Available {
			writeMessage(w, http.StatusConflict, "This time slot is no longer available")
			return
		}
	}

	c.SetSchedule(req.Date, req.Time)
	if req.Notes != "" {
		c.Notes = req.Notes
	}
	if err := h.store.Save(r.Context(), key, c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view(c))
}

// ClearCart handles DELETE /api/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKey(r)
	if !ok {
		writeError(w, errNoSession)
		return
	}
	if err := h.store.Clear(r.Context(), key); err != nil {
		h.logger.Error("failed to clear cart", "error", err)
		writeError(w, err)
		return
	}
	// Also drop any pre-login cart so it cannot be re-adopted later.
	if _, authed := session.FromContext(r.Context()); authed {
		if sid, ok := middleware.BrowsingSessionID(r.Context()); ok {
			if err := h.store.Clear(r.Context(), "anon:"+sid); err != nil {
				h.logger.Error("failed to clear pre-login cart", "error", err)
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
