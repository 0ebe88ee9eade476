package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/glowbook/booking-gateway/internal/booking"
)

// GetServiceByID fetches one service offering.
func (c *Client) GetServiceByID(ctx context.Context, id string) (*booking.Service, error) {
	var out booking.Service
	if err := c.do(ctx, http.MethodGet, "/services/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetServicesBySalonID lists a salon's service offerings. The catalog service
// answers either a bare array or a {"services": [...]} wrapper depending on
// version, so both are accepted.
func (c *Client) GetServicesBySalonID(ctx context.Context, salonID string) ([]booking.Service, error) {
	var raw json.RawMessage
	path := "/salons/" + url.PathEscape(salonID) + "/services"
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	var services []booking.Service
	if err := json.Unmarshal(raw, &services); err == nil {
		return services, nil
	}
	var wrapped struct {
		Services []booking.Service `json:"services"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("gateway: unmarshal services: %w", err)
	}
	return wrapped.Services, nil
}
