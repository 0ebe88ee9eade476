// Package handlers exposes the booking workflow over HTTP: the salon and
// availability reads the booking view needs, the session cart, and checkout
// submission. Responses use a flat JSON error envelope ({"message": ...})
// matching what the platform gateway itself returns, so the frontend treats
// local and upstream failures uniformly.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/glowbook/booking-gateway/internal/availability"
	"github.com/glowbook/booking-gateway/internal/checkout"
	"github.com/glowbook/booking-gateway/internal/gateway"
)

// errNoSession means the request carries neither a login nor a browsing
// session; the middleware normally guarantees at least the latter.
var errNoSession = errors.New("handlers: no session")

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Action  string `json:"action,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeError maps workflow and collaborator errors onto HTTP statuses.
// Upstream messages pass through verbatim; anything unrecognized becomes a
// generic 500 so internal detail never leaks to the browser.
func writeError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: vErr.Message, Field: vErr.Field})
		return
	}

	switch {
	case errors.Is(err, errNoSession):
		writeMessage(w, http.StatusBadRequest, "No session")
		return
	case errors.Is(err, checkout.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Please log in to continue", Action: "login"})
		return
	case errors.Is(err, gateway.ErrSessionInvalid):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Session expired, please log in again", Action: "login"})
		return
	case errors.Is(err, checkout.ErrSubmitInFlight):
		writeMessage(w, http.StatusConflict, "A booking is already being submitted, please wait")
		return
	case errors.Is(err, gateway.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	case errors.Is(err, availability.ErrInvalidDate):
		writeMessage(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var uErr *gateway.UpstreamError
	if errors.As(err, &uErr) {
		status := http.StatusBadGateway
		if uErr.Status >= 400 && uErr.Status < 500 {
			status = uErr.Status
		}
		writeMessage(w, status, uErr.Message)
		return
	}

	writeMessage(w, http.StatusInternalServerError, "Something went wrong, please try again")
}
