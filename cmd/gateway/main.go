package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/glowbook/booking-gateway/internal/api/router"
	"github.com/glowbook/booking-gateway/internal/availability"
	"github.com/glowbook/booking-gateway/internal/booking"
	"github.com/glowbook/booking-gateway/internal/cart"
	"github.com/glowbook/booking-gateway/internal/checkout"
	appconfig "github.com/glowbook/booking-gateway/internal/config"
	"github.com/glowbook/booking-gateway/internal/gateway"
	"github.com/glowbook/booking-gateway/internal/http/handlers"
	"github.com/glowbook/booking-gateway/internal/observability/metrics"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

func main() {
	// Load .env if present; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking gateway",
		"env", cfg.Env,
		"port", cfg.Port,
		"data_source", cfg.DataSource,
	)

	redisClient := newRedisClient(cfg)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	flowMetrics := metrics.NewFlowMetrics(registry)

	// Collaborators: the live platform gateway, or the seeded fixture for
	// development and demos. Everything downstream is identical.
	var (
		salons   booking.SalonDirectory
		catalog  booking.ServiceCatalog
		bookings booking.BookingService
		payments booking.PaymentService
	)
	switch cfg.DataSource {
	case appconfig.DataSourceFixture:
		fx := gateway.NewFixture()
		salons, catalog, bookings, payments = fx, fx, fx, fx
		logger.Info("using fixture data source")
	default:
		client := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayTimeout, logger)
		salons, catalog, bookings, payments = client, client, client, client
		logger.Info("using live platform gateway", "base_url", cfg.GatewayBaseURL)
	}

	resolver := availability.NewResolver(salons, bookings, logger,
		availability.WithDegradeOnError(cfg.AvailabilityDegradeOnError),
		availability.WithDefaultHours(cfg.DefaultOpeningTime, cfg.DefaultClosingTime),
		availability.WithMetrics(flowMetrics),
	)
	cartStore := cart.NewStore(redisClient, cfg.CartTTL)
	checkoutSvc := checkout.NewService(bookings, payments, logger,
		checkout.WithSubmitGuard(checkout.NewSubmitGuard(redisClient, cfg.SubmitLockTTL)),
		checkout.WithMetrics(flowMetrics),
		checkout.WithPaymentMethod(cfg.PaymentMethod),
		checkout.WithLocalSuccessFallback(cfg.AllowFakePayments),
		checkout.WithConfirmationBase(cfg.PublicBaseURL),
	)

	routerCfg := &router.Config{
		Logger:             logger,
		Salons:             handlers.NewSalonHandler(salons, catalog, bookings, logger),
		Availability:       handlers.NewAvailabilityHandler(resolver, logger),
		Cart:               handlers.NewCartHandler(cartStore, catalog, resolver, logger),
		Checkout:           handlers.NewCheckoutHandler(checkoutSvc, cartStore, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		SessionSecret:      cfg.SessionJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CheckoutRatePerSec: 1,
		CheckoutBurst:      3,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("failed to close redis client", "error", err)
	}

	logger.Info("server stopped")
}

func newRedisClient(cfg *appconfig.Config) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}
