package server

import (
	"time"

	"github.com/vango-dev/vroute/pkg/render"
)

// Config configures a Server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// Basename is the URL prefix the application is mounted under.
	// Default: "" (root).
	Basename string

	// Server lifecycle

	// ReadHeaderTimeout bounds reading the request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout bounds reading the whole request.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing the response.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout bounds keep-alive connections.
	// Default: 120 seconds.
	IdleTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// Page

	// Title is the page title used when a render does not set one.
	Title string

	// Lang is the html lang attribute. Default: "en".
	Lang string

	// Scripts are added to every page.
	Scripts []render.ScriptTag

	// Static serves files next to the routed pages.
	Static StaticConfig

	// Endpoints

	// MetricsPath serves Prometheus metrics when non-empty.
	// Default: "" (disabled).
	MetricsPath string

	// Limits

	// RateLimit throttles page requests per client IP. A zero
	// RequestsPerSecond disables it.
	RateLimit RateLimitConfig

	// TrustedProxies lists trusted reverse proxy IPs or CIDRs whose
	// X-Forwarded-For and Forwarded headers are believed.
	// Default: nil (don't trust proxy headers).
	TrustedProxies []string
}

// RateLimitConfig is a token bucket per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		Lang:              "en",
	}
}

// withDefaults returns a copy of c with unset fields defaulted.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = defaults.IdleTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.Lang == "" {
		out.Lang = defaults.Lang
	}
	if out.RateLimit.RequestsPerSecond > 0 && out.RateLimit.Burst <= 0 {
		out.RateLimit.Burst = max(1, int(out.RateLimit.RequestsPerSecond))
	}
	return &out
}
