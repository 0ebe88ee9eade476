package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/glowbook/booking-gateway/internal/booking"
)

// GetSalonByID fetches a salon record from the salon service.
func (c *Client) GetSalonByID(ctx context.Context, id string) (*booking.Salon, error) {
	var out booking.Salon
	if err := c.do(ctx, http.MethodGet, "/salons/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSalons lists salons with pagination and an optional search term.
func (c *Client) GetSalons(ctx context.Context, page, limit int, search string) ([]booking.Salon, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	if search != "" {
		q.Set("search", search)
	}
	var out []booking.Salon
	if err := c.do(ctx, http.MethodGet, "/salons?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
