package config

import (
	"testing"
	"time"
)

func TestLoadForTestsDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/wholesale",
		"REDIS_URL":    "redis://localhost:6379/0",
		"PORT":         "",
		"APP_ENV":      "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("app env = %q", cfg.AppEnv)
	}
	if cfg.OrderNumberPrefix != "FAS" {
		t.Fatalf("prefix = %q", cfg.OrderNumberPrefix)
	}
	if cfg.OrderNumberMaxAttempts != 8 {
		t.Fatalf("max attempts = %d", cfg.OrderNumberMaxAttempts)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("idempotency ttl = %s", cfg.IdempotencyTTL)
	}
	if cfg.RateLimitWindow != time.Minute || cfg.RateLimitMax != 120 {
		t.Fatalf("rate limit = %s/%d", cfg.RateLimitWindow, cfg.RateLimitMax)
	}
	if got := cfg.HTTPAddr(); got != ":8080" {
		t.Fatalf("addr = %q", got)
	}
}

func TestLoadForTestsOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":              "postgres://localhost:5432/wholesale",
		"REDIS_URL":                 "redis://localhost:6379/0",
		"PORT":                      "9090",
		"ORDER_NUMBER_PREFIX":       "ACME",
		"ORDER_NUMBER_MAX_ATTEMPTS": "3",
		"RATE_LIMIT_WINDOW":         "30s",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OrderNumberPrefix != "ACME" {
		t.Fatalf("prefix = %q", cfg.OrderNumberPrefix)
	}
	if cfg.OrderNumberMaxAttempts != 3 {
		t.Fatalf("max attempts = %d", cfg.OrderNumberMaxAttempts)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("window = %s", cfg.RateLimitWindow)
	}
	if got := cfg.HTTPAddr(); got != ":9090" {
		t.Fatalf("addr = %q", got)
	}
}

func TestLoadRequiresStores(t *testing.T) {
	if _, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	}); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
	if _, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/wholesale",
		"REDIS_URL":    "",
	}); err == nil {
		t.Fatal("expected error without REDIS_URL")
	}
}
