// Package config loads relay server configuration from the environment,
// with an optional .env file in the working directory.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server holds the settings both relay servers read from the
// environment. The API key is forwarded to the cloud speech APIs; the
// relays never validate it themselves.
type Server struct {
	GoogleAPIKey string  `env:"GOOGLE_API_KEY,required"`
	Language     string  `env:"VOICEWIRE_LANGUAGE" envDefault:"en-US"`
	MaxConns     int     `env:"VOICEWIRE_MAX_CONNS" envDefault:"0"`
	ConnTimeout  float64 `env:"VOICEWIRE_CONN_TIMEOUT_SEC" envDefault:"0"`
}

// Load reads .env if present, then parses the environment. Missing
// required variables are an error so the servers fail at startup rather
// than on the first connection.
func Load() (*Server, error) {
	// A missing .env file is fine; explicit environment still applies.
	_ = godotenv.Load()

	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Server) Validate() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("VOICEWIRE_MAX_CONNS must not be negative, got %d", c.MaxConns)
	}
	if c.ConnTimeout < 0 {
		return fmt.Errorf("VOICEWIRE_CONN_TIMEOUT_SEC must not be negative, got %g", c.ConnTimeout)
	}
	return nil
}
