package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "DATABASE_URL", "REDIS_URL", "JWT_SECRET", "ALLOWED_ORIGINS", "RATE_LIMIT_WHITELIST"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected default port 5000, got %q", cfg.Port)
	}
	if cfg.Env != "development" || !cfg.IsDevelopment() {
		t.Fatalf("expected development env, got %q", cfg.Env)
	}
	if cfg.JWTDuration != 7*24*time.Hour {
		t.Fatalf("unexpected token lifetime %v", cfg.JWTDuration)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("expected no origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "staging")
	t.Setenv("DATABASE_URL", "postgres://localhost/fitness")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com ,")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.0/8, 192.0.2.7")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Fatal("staging is not development")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if len(cfg.RateLimitWhitelist) != 2 {
		t.Fatalf("unexpected whitelist: %v", cfg.RateLimitWhitelist)
	}
}

func TestProductionRequiresBackingServices(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "")

	defer func() {
		if recover() == nil {
			t.Fatal("production without DATABASE_URL should panic")
		}
	}()
	Load()
}
