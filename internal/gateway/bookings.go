package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/glowbook/booking-gateway/internal/booking"
)

// GetBookedSlots returns the times already booked for a salon on a date.
func (c *Client) GetBookedSlots(ctx context.Context, salonID, date string) ([]string, error) {
	var out struct {
		BookedTimes []string `json:"bookedTimes"`
	}
	path := "/salons/" + url.PathEscape(salonID) + "/availability?date=" + url.QueryEscape(date)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.BookedTimes, nil
}

// CreateBooking submits a booking to the booking service.
func (c *Client) CreateBooking(ctx context.Context, req booking.CreateBookingRequest) (*booking.Booking, error) {
	var out booking.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBookingByID fetches the projection of an existing booking.
func (c *Client) GetBookingByID(ctx context.Context, id string) (*booking.Booking, error) {
	var out booking.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
