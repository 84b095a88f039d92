package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GoogleAPIKey != "test-key" {
		t.Fatalf("unexpected API key %q", cfg.GoogleAPIKey)
	}
	if cfg.Language != "en-US" {
		t.Fatalf("expected default language, got %q", cfg.Language)
	}
	if cfg.MaxConns != 0 || cfg.ConnTimeout != 0 {
		t.Fatalf("expected zero limits by default, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("VOICEWIRE_LANGUAGE", "fr-FR")
	t.Setenv("VOICEWIRE_MAX_CONNS", "32")
	t.Setenv("VOICEWIRE_CONN_TIMEOUT_SEC", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Language != "fr-FR" {
		t.Fatalf("expected language override, got %q", cfg.Language)
	}
	if cfg.MaxConns != 32 {
		t.Fatalf("expected max conns override, got %d", cfg.MaxConns)
	}
	if cfg.ConnTimeout != 30 {
		t.Fatalf("expected timeout override, got %g", cfg.ConnTimeout)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GOOGLE_API_KEY is missing")
	}
}

func TestValidateNegativeLimits(t *testing.T) {
	cfg := &Server{GoogleAPIKey: "k", MaxConns: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative max conns")
	}

	cfg = &Server{GoogleAPIKey: "k", ConnTimeout: -5}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}
