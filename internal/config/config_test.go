package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.GeocodeBaseURL == "" {
		t.Fatalf("expected default geocode base url")
	}
	if cfg.AddressDebounce() != time.Second {
		t.Fatalf("expected 1s debounce, got %v", cfg.AddressDebounce())
	}
	if cfg.GeocodeTimeout() != 5*time.Second {
		t.Fatalf("expected 5s geocode timeout, got %v", cfg.GeocodeTimeout())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("GEOCODE_BASE_URL", "http://localhost:7070")
	t.Setenv("ADDRESS_DEBOUNCE_MS", "50")
	t.Setenv("GEOCODE_CACHE_TTL_MIN", "5")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.GeocodeBaseURL != "http://localhost:7070" {
		t.Fatalf("expected override geocode base url")
	}
	if cfg.AddressDebounce() != 50*time.Millisecond {
		t.Fatalf("expected override debounce")
	}
	if cfg.GeocodeCacheTTL() != 5*time.Minute {
		t.Fatalf("expected override cache ttl")
	}
}
