package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}
	if cfg.MaxSteps != DefaultMaxSteps {
		t.Fatalf("expected default max steps, got %d", cfg.MaxSteps)
	}
	if cfg.ToolTimeout != DefaultToolTimeout {
		t.Fatalf("expected default timeout, got %v", cfg.ToolTimeout)
	}
	if cfg.ToolLimits.ReadMaxBytes != DefaultReadBytes || cfg.ToolLimits.ReadMaxLines != DefaultReadLines {
		t.Fatalf("unexpected read limits %+v", cfg.ToolLimits)
	}
	if cfg.ToolLimits.SearchMaxResults != DefaultSearchMaxResults {
		t.Fatalf("unexpected search result limit %d", cfg.ToolLimits.SearchMaxResults)
	}
}

func TestLoadModelFromEnv(t *testing.T) {
	t.Setenv("SCOUT_MODEL", "openai/gpt-4.1-mini")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "openai/gpt-4.1-mini" {
		t.Fatalf("env model not applied, got %q", cfg.Model)
	}
}

func TestLoadTimeoutSecondsEnv(t *testing.T) {
	t.Setenv("SCOUT_TIMEOUT_SECONDS", "5")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ToolTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.ToolTimeout)
	}
}
