package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GATEWAY_BASE_URL", "")
	t.Setenv("DATA_SOURCE", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.DataSource != "live" {
		t.Fatalf("expected default data source live, got %s", cfg.DataSource)
	}
	if !cfg.AvailabilityDegradeOnError {
		t.Fatal("expected availability degrade enabled by default")
	}
	if cfg.AllowFakePayments {
		t.Fatal("expected fake payments disabled by default")
	}
	if cfg.GatewayTimeout != 10*time.Second {
		t.Fatalf("expected default gateway timeout, got %s", cfg.GatewayTimeout)
	}
	if cfg.DefaultOpeningTime != "09:00" || cfg.DefaultClosingTime != "18:00" {
		t.Fatalf("expected default business hours 09:00-18:00, got %s-%s",
			cfg.DefaultOpeningTime, cfg.DefaultClosingTime)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("GATEWAY_BASE_URL", "https://gateway.example.com/api")
	t.Setenv("DATA_SOURCE", "Fixture")
	t.Setenv("AVAILABILITY_DEGRADE_ON_ERROR", "false")
	t.Setenv("SUBMIT_LOCK_TTL", "45s")
	t.Setenv("CART_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.GatewayBaseURL != "https://gateway.example.com/api" {
		t.Fatalf("expected gateway override, got %s", cfg.GatewayBaseURL)
	}
	if cfg.DataSource != "fixture" {
		t.Fatalf("expected normalized data source, got %s", cfg.DataSource)
	}
	if cfg.AvailabilityDegradeOnError {
		t.Fatal("expected degrade override to false")
	}
	if cfg.SubmitLockTTL != 45*time.Second {
		t.Fatalf("expected submit lock override, got %s", cfg.SubmitLockTTL)
	}
	if cfg.CartTTL != 30*time.Minute {
		t.Fatalf("expected cart ttl override, got %s", cfg.CartTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}
