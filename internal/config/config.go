package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// Redis settings. An empty URL selects the in-memory store.
	RedisURL string

	// Admission control settings
	GlobalRateLimit int           // accepted creations before the leaky bucket rejects
	AddressWindow   time.Duration // per-address creation cooldown
	RateTick        time.Duration // leak/prune interval

	// Sweeper settings
	SweepInterval time.Duration

	// Shutdown settings
	ShutdownTimeout time.Duration

	// Security settings
	RequireHTTPS bool // enforce HTTPS with HSTS header (disable with NO_HTTPS=1)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:              "8080",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB

		RedisURL: "",

		GlobalRateLimit: 100,
		AddressWindow:   30 * time.Second,
		RateTick:        5 * time.Second,

		SweepInterval: time.Hour,

		ShutdownTimeout: 5 * time.Second,

		RequireHTTPS: true,
	}
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return Config{}, fmt.Errorf("PORT must be a valid number: %w", err)
		}
		cfg.Port = port
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RedisURL = redisURL
	}

	if limit := os.Getenv("REQUESTS_RATE_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return Config{}, errors.New("REQUESTS_RATE_LIMIT must be a positive integer")
		}
		cfg.GlobalRateLimit = n
	}

	if window := os.Getenv("IP_RATE_LIMIT_TIME"); window != "" {
		dur, err := time.ParseDuration(window)
		if err != nil || dur <= 0 {
			return Config{}, errors.New("IP_RATE_LIMIT_TIME must be a positive duration")
		}
		cfg.AddressWindow = dur
	}

	if interval := os.Getenv("SWEEP_INTERVAL"); interval != "" {
		dur, err := time.ParseDuration(interval)
		if err != nil || dur <= 0 {
			return Config{}, errors.New("SWEEP_INTERVAL must be a positive duration")
		}
		cfg.SweepInterval = dur
	}

	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		dur, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf(
				"SHUTDOWN_TIMEOUT must be a valid duration: %w", err)
		}
		cfg.ShutdownTimeout = dur
	}

	if noHTTPS := os.Getenv("NO_HTTPS"); noHTTPS == "1" || noHTTPS == "true" {
		cfg.RequireHTTPS = false
	}

	return cfg, nil
}

// ListenAddr returns the address string for the HTTP server.
func (c Config) ListenAddr() string {
	return ":" + c.Port
}
