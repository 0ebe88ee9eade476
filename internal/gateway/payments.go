package gateway

import (
	"context"
	"net/http"

	"github.com/glowbook/booking-gateway/internal/booking"
)

// CreatePaymentLink asks the payment service for a hosted checkout link.
// Older deployments answer {"checkoutUrl"} instead of {"paymentLink"}; both
// are accepted.
func (c *Client) CreatePaymentLink(ctx context.Context, req booking.CreatePaymentLinkRequest) (*booking.PaymentLink, error) {
	var out struct {
		ID          string `json:"id"`
		PaymentLink string `json:"paymentLink"`
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/payments", req, &out); err != nil {
		return nil, err
	}
	link := out.PaymentLink
	if link == "" {
		link = out.CheckoutURL
	}
	return &booking.PaymentLink{PaymentID: out.ID, URL: link}, nil
}

var (
	_ booking.SalonDirectory = (*Client)(nil)
	_ booking.ServiceCatalog = (*Client)(nil)
	_ booking.BookingService = (*Client)(nil)
	_ booking.PaymentService = (*Client)(nil)
)

