package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PLATFORM_BASE_URL", "")
	t.Setenv("SESSION_TTL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.PlatformBaseURL != "https://pl.snapsbooking.com/api" {
		t.Fatalf("expected default platform base url, got %s", cfg.PlatformBaseURL)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("expected archive disabled by default, got %s", cfg.DatabaseURL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PLATFORM_BASE_URL", "https://staging.snapsbooking.com/api")
	t.Setenv("BOOKING_TIMEZONE", "America/Chicago")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://book.example.com, https://www.example.com")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.PlatformBaseURL != "https://staging.snapsbooking.com/api" {
		t.Fatalf("expected platform override, got %s", cfg.PlatformBaseURL)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Fatalf("expected timezone override, got %s", cfg.Timezone)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	want := []string{"https://book.example.com", "https://www.example.com"}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != want[0] || cfg.CORSAllowedOrigins[1] != want[1] {
		t.Fatalf("expected cors override, got %v", cfg.CORSAllowedOrigins)
	}
}
