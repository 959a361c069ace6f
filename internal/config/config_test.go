package config

import (
	"os"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.GlobalRateLimit != 100 {
		t.Errorf("expected default global rate limit 100, got %d", cfg.GlobalRateLimit)
	}
	if cfg.AddressWindow != 30*time.Second {
		t.Errorf("expected default address window 30s, got %v", cfg.AddressWindow)
	}
	if cfg.SweepInterval != time.Hour {
		t.Errorf("expected default sweep interval 1h, got %v", cfg.SweepInterval)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("REDIS_URL")
	os.Unsetenv("REQUESTS_RATE_LIMIT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RedisURL != "" {
		t.Errorf("expected empty default redis URL, got %s", cfg.RedisURL)
	}
}

func TestLoad_CustomPort(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("expected port 3000, got %s", cfg.Port)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestLoad_RateLimits(t *testing.T) {
	t.Setenv("REQUESTS_RATE_LIMIT", "10")
	t.Setenv("IP_RATE_LIMIT_TIME", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GlobalRateLimit != 10 {
		t.Errorf("expected global rate limit 10, got %d", cfg.GlobalRateLimit)
	}
	if cfg.AddressWindow != 45*time.Second {
		t.Errorf("expected address window 45s, got %v", cfg.AddressWindow)
	}
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	t.Setenv("REQUESTS_RATE_LIMIT", "0")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-positive rate limit")
	}
}

func TestLoad_InvalidSweepInterval(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid sweep interval")
	}
}

func TestLoad_NoHTTPS(t *testing.T) {
	t.Setenv("NO_HTTPS", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RequireHTTPS {
		t.Error("expected RequireHTTPS to be disabled")
	}
}

func TestListenAddr(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ListenAddr(); got != ":8080" {
		t.Errorf("ListenAddr() = %s, want :8080", got)
	}
}
