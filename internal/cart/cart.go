// Package cart accumulates the services a customer selected while browsing
// one salon, plus the chosen date and time. It is pure session state: owned
// by the browsing session, persisted only for the session's lifetime, and
// discarded when the customer moves on.
package cart

import "github.com/glowbook/booking-gateway/internal/booking"

// Cart is one session's selection for a single salon.
type Cart struct {
	SalonID string             `json:"salonId"`
	Items   []booking.CartItem `json:"items"`
	Date    string             `json:"date,omitempty"` // "YYYY-MM-DD"
	Time    string             `json:"time,omitempty"` // "HH:MM"
	Notes   string             `json:"notes,omitempty"`
}

// New returns an empty cart for a salon.
func New(salonID string) *Cart {
	return &Cart{SalonID: salonID}
}

// Add puts a service in the cart. Adding a service that is already present
// increments its quantity; items are keyed by service identity.
func (c *Cart) Add(svc booking.Service) {
	for i := range c.Items {
		if c.Items[i].Service.ID == svc.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, booking.CartItem{Service: svc, Quantity: 1})
}

// Remove drops a service from the cart entirely, regardless of quantity.
func (c *Cart) Remove(serviceID string) {
	for i := range c.Items {
		if c.Items[i].Service.ID == serviceID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Total is the sum of price x quantity over all items. No tax, discount or
// currency conversion happens here.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Service.Price * float64(item.Quantity)
	}
	return total
}

// Empty reports whether no services are selected.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// SetSchedule records the chosen date and time. Changing the date clears the
// previously chosen time, since the old slot belongs to a different grid.
func (c *Cart) SetSchedule(date, hhmm string) {
	if date != c.Date {
		c.Time = ""
	}
	c.Date = date
	if hhmm != "" {
		c.Time = hhmm
	}
}
