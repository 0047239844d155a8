package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("HOMELAB_SUBSCRIPTION_ID", "sub-123")
	t.Setenv("HOMELAB_RESOURCE_GROUP", "homelab-rg")

	cfg := FromEnv()
	if cfg.SubscriptionID != "sub-123" || cfg.ResourceGroup != "homelab-rg" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Location != "westeurope" {
		t.Errorf("default location = %q", cfg.Location)
	}
	if cfg.Environment != "dev" || cfg.Project != "homelab" {
		t.Errorf("default tags = %q/%q", cfg.Environment, cfg.Project)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("default poll interval = %s", cfg.PollInterval)
	}
	if cfg.Timeout != 45*time.Minute {
		t.Errorf("default timeout = %s", cfg.Timeout)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HOMELAB_LOCATION", "northeurope")
	t.Setenv("HOMELAB_POLL_INTERVAL", "10s")
	t.Setenv("HOMELAB_TIMEOUT", "1h")

	cfg := FromEnv()
	if cfg.Location != "northeurope" {
		t.Errorf("location = %q", cfg.Location)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("poll interval = %s", cfg.PollInterval)
	}
	if cfg.Timeout != time.Hour {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
}

func TestFromEnv_BadDurationFallsBack(t *testing.T) {
	t.Setenv("HOMELAB_POLL_INTERVAL", "not-a-duration")
	cfg := FromEnv()
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("poll interval = %s, want default", cfg.PollInterval)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty config must not validate")
	}

	cfg.SubscriptionID = "sub"
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing resource group must not validate")
	}

	cfg.ResourceGroup = "rg"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// A simulator endpoint stands in for real credentials.
	sim := Config{EndpointURL: "http://localhost:9990"}
	if err := sim.Validate(); err != nil {
		t.Fatalf("Validate with endpoint: %v", err)
	}
}
