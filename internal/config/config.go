// Package config handles environment variable loading for ports, database strings, etc.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration values for the application.
type Config struct {
	// Database connection string
	DatabaseURL string

	// HTTP server port
	HTTPPort int

	// Secret guarding operator endpoints (tenant onboarding)
	SystemSecret string

	// OTLP collector address for traces; empty disables tracing
	OTELEndpoint string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	portStr := os.Getenv("PORT")
	port := 7171 // Default
	if portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		port = p
	}

	secret := os.Getenv("SYSTEM_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SYSTEM_SECRET is required")
	}

	return &Config{
		DatabaseURL:  dbUrl,
		HTTPPort:     port,
		SystemSecret: secret,
		OTELEndpoint: os.Getenv("OTEL_ENDPOINT"),
	}, nil
}
