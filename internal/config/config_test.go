package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/storefront")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ORDER_CANCEL_WINDOW", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.OrderCancelWindow != 3*time.Minute {
		t.Fatalf("expected three minute cancel window, got %v", cfg.OrderCancelWindow)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %v", cfg.SessionTTL)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/storefront")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ORDER_CANCEL_WINDOW", "90s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ENVIRONMENT", "Development")

	cfg := Load()

	if cfg.OrderCancelWindow != 90*time.Second {
		t.Fatalf("expected 90s window, got %v", cfg.OrderCancelWindow)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if !cfg.Development() {
		t.Fatal("expected development mode")
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("ORDER_CANCEL_WINDOW", "soon")
	if got := getDuration("ORDER_CANCEL_WINDOW", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	t.Setenv("ORDER_CANCEL_WINDOW", "-5s")
	if got := getDuration("ORDER_CANCEL_WINDOW", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for negative value, got %v", got)
	}
}

func TestLoadMissingRequiredPanics(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing DATABASE_URL")
		}
	}()
	Load()
}

func TestLoadClientTrimsBaseURL(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://shop.example/")
	cfg := LoadClient()
	if cfg.APIBaseURL != "https://shop.example" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
}
