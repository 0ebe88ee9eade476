package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glowbook/booking-gateway/internal/http/handlers"
	httpmiddleware "github.com/glowbook/booking-gateway/internal/http/middleware"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger       *logging.Logger
	Salons       *handlers.SalonHandler
	Availability *handlers.AvailabilityHandler
	Cart         *handlers.CartHandler
	Checkout     *handlers.CheckoutHandler

	MetricsHandler http.Handler

	// SessionSecret verifies bearer tokens; empty disables session parsing,
	// leaving every request anonymous.
	SessionSecret      string
	CORSAllowedOrigins []string

	// CheckoutRatePerSec limits checkout submissions per caller; zero
	// disables the limiter.
	CheckoutRatePerSec float64
	CheckoutBurst      int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.SessionSecret != "" {
		r.Use(httpmiddleware.SessionAuth(cfg.SessionSecret, cfg.Logger))
	}
	r.Use(httpmiddleware.BrowsingSession)

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/salons", func(r chi.Router) {
			r.Get("/", cfg.Salons.ListSalons)
			r.Route("/{salonID}", func(r chi.Router) {
				r.Get("/", cfg.Salons.GetSalon)
				r.Get("/services", cfg.Salons.ListServices)
				r.Get("/availability", cfg.Availability.GetAvailability)
			})
		})

		api.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Delete("/", cfg.Cart.ClearCart)
			r.Post("/items", cfg.Cart.AddItem)
			r.Delete("/items/{serviceID}", cfg.Cart.RemoveItem)
			r.Put("/schedule", cfg.Cart.SetSchedule)
		})

		api.Group(func(authed chi.Router) {
			authed.Use(httpmiddleware.RequireSession)
			if cfg.CheckoutRatePerSec > 0 {
				authed.With(httpmiddleware.RateLimit(cfg.CheckoutRatePerSec, cfg.CheckoutBurst)).
					Post("/checkout", cfg.Checkout.Submit)
			} else {
				authed.Post("/checkout", cfg.Checkout.Submit)
			}
			authed.Get("/bookings/{bookingID}", cfg.Salons.GetBooking)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
