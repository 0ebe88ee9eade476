// Package booking defines the salon-platform domain types and the
// collaborator interfaces the workflow consumes. Implementations live in
// internal/gateway (live REST client and fixture data source); the workflow
// packages depend only on the interfaces here.
package booking

import "time"

// BookingStatus is the lifecycle status of a booking, owned by the booking
// service after creation. This service only ever holds a projection.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusRefunded  BookingStatus = "REFUNDED"
)

// Salon is the directory projection of a salon. Read-only in this workflow.
type Salon struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"ownerId,omitempty"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Rating      float64 `json:"rating,omitempty"`
	Description string  `json:"description,omitempty"`
	// OpeningTime/ClosingTime are "HH:MM" strings; empty when the salon has
	// not published hours.
	OpeningTime string `json:"openingTime,omitempty"`
	ClosingTime string `json:"closingTime,omitempty"`
}

// Service is a bookable salon service. Price is a decimal amount in the
// platform currency's major unit; the workflow never does unit conversion.
type Service struct {
	ID          string  `json:"id"`
	SalonID     string  `json:"salonId"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration"`
	Description string  `json:"description,omitempty"`
}

// TimeSlot is one half-hour slot on a salon's day grid. Ephemeral: recomputed
// on every availability resolution, never persisted.
type TimeSlot struct {
	Time      string `json:"time"` // "HH:MM"
	Available bool   `json:"available"`
}

// CartItem is one selected service with a quantity.
type CartItem struct {
	Service  Service `json:"service"`
	Quantity int     `json:"quantity"`
}

// Booking is the read-only projection returned by the booking service.
type Booking struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customerId"`
	SalonID    string        `json:"salonId"`
	ServiceID  string        `json:"serviceId"`
	Date       string        `json:"date"` // "YYYY-MM-DD"
	Time       string        `json:"time"` // "HH:MM"
	Status     BookingStatus `json:"status"`
	TotalPrice float64       `json:"totalPrice"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// CreateBookingRequest is the payload for the booking service's create call.
type CreateBookingRequest struct {
	CustomerID string `json:"userId"`
	SalonID    string `json:"salonId"`
	ServiceID  string `json:"serviceId"`
	Date       string `json:"bookingDate"`
	Time       string `json:"bookingTime"`
	Notes      string `json:"notes,omitempty"`
}

// CreatePaymentLinkRequest asks the payment service for a hosted checkout
// link. Amount is captured by the caller at submit time.
type CreatePaymentLinkRequest struct {
	BookingID     string  `json:"bookingId"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
}

// PaymentLink is the payment service's response. URL may be empty in
// degenerate/test configurations; callers decide what that means.
type PaymentLink struct {
	PaymentID string `json:"paymentId,omitempty"`
	URL       string `json:"url,omitempty"`
}
