package booking

import "context"

// SalonDirectory reads salon records from the salon service.
type SalonDirectory interface {
	GetSalonByID(ctx context.Context, id string) (*Salon, error)
	GetSalons(ctx context.Context, page, limit int, search string) ([]Salon, error)
}

// ServiceCatalog reads service offerings from the catalog service.
type ServiceCatalog interface {
	GetServiceByID(ctx context.Context, id string) (*Service, error)
	GetServicesBySalonID(ctx context.Context, salonID string) ([]Service, error)
}

// BookingService creates bookings and reports booked times.
type BookingService interface {
	// GetBookedSlots returns the "HH:MM" times already booked for the salon
	// on the given "YYYY-MM-DD" date.
	GetBookedSlots(ctx context.Context, salonID, date string) ([]string, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error)
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
}

// PaymentService creates hosted checkout links for bookings.
type PaymentService interface {
	CreatePaymentLink(ctx context.Context, req CreatePaymentLinkRequest) (*PaymentLink, error)
}
