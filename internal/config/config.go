package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DataSource values selecting the collaborator implementation.
const (
	DataSourceLive    = "live"
	DataSourceFixture = "fixture"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Platform gateway (salon, catalog, booking and payment services are
	// reached through it)
	GatewayBaseURL string
	GatewayTimeout time.Duration

	// DataSource selects the collaborator implementation: "live" talks to
	// the platform gateway, "fixture" serves built-in demo data.
	DataSource string

	// Session auth
	SessionJWTSecret string

	// Availability
	AvailabilityDegradeOnError bool
	DefaultOpeningTime         string
	DefaultClosingTime         string

	// Checkout
	PaymentMethod     string
	AllowFakePayments bool
	SubmitLockTTL     time.Duration

	// Cart session store
	CartTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		GatewayBaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:8862/api"),
		GatewayTimeout: getEnvAsDuration("GATEWAY_TIMEOUT", 10*time.Second),

		DataSource: strings.ToLower(strings.TrimSpace(getEnv("DATA_SOURCE", "live"))),

		SessionJWTSecret: getEnv("SESSION_JWT_SECRET", ""),

		AvailabilityDegradeOnError: getEnvAsBool("AVAILABILITY_DEGRADE_ON_ERROR", true),
		DefaultOpeningTime:         getEnv("DEFAULT_OPENING_TIME", "09:00"),
		DefaultClosingTime:         getEnv("DEFAULT_CLOSING_TIME", "18:00"),

		PaymentMethod:     getEnv("PAYMENT_METHOD", "STRIPE"),
		AllowFakePayments: getEnvAsBool("ALLOW_FAKE_PAYMENTS", false),
		SubmitLockTTL:     getEnvAsDuration("SUBMIT_LOCK_TTL", 30*time.Second),

		CartTTL: getEnvAsDuration("CART_TTL", 2*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
