// Package config loads HomeLab configuration from environment variables and
// optional per-context files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds everything the toolkit needs to talk to one Azure environment.
type Config struct {
	SubscriptionID string
	ResourceGroup  string
	Location       string
	Environment    string // environment tag (dev, test, prod)
	Project        string // project tag applied to every resource

	TemplateDir string // directory holding the Bicep templates for CLI deployments
	LogDir      string // directory for monitoring session logs

	DNSZone               string
	StorageAccount        string
	LogAnalyticsWorkspace string

	// EndpointURL points the SDK clients at a local ARM simulator instead of
	// the public cloud. Used in integration tests only.
	EndpointURL string

	PollInterval time.Duration
	Timeout      time.Duration
}

// FromEnv loads configuration from HOMELAB_* environment variables.
func FromEnv() Config {
	return Config{
		SubscriptionID:        os.Getenv("HOMELAB_SUBSCRIPTION_ID"),
		ResourceGroup:         os.Getenv("HOMELAB_RESOURCE_GROUP"),
		Location:              envOrDefault("HOMELAB_LOCATION", "westeurope"),
		Environment:           envOrDefault("HOMELAB_ENV", "dev"),
		Project:               envOrDefault("HOMELAB_PROJECT", "homelab"),
		TemplateDir:           envOrDefault("HOMELAB_TEMPLATE_DIR", "templates"),
		LogDir:                envOrDefault("HOMELAB_LOG_DIR", defaultLogDir()),
		DNSZone:               os.Getenv("HOMELAB_DNS_ZONE"),
		StorageAccount:        os.Getenv("HOMELAB_STORAGE_ACCOUNT"),
		LogAnalyticsWorkspace: os.Getenv("HOMELAB_LOG_ANALYTICS_WORKSPACE"),
		EndpointURL:           os.Getenv("HOMELAB_ENDPOINT_URL"),
		PollInterval:          envDuration("HOMELAB_POLL_INTERVAL", 30*time.Second),
		Timeout:               envDuration("HOMELAB_TIMEOUT", 45*time.Minute),
	}
}

// Validate checks required configuration.
func (c Config) Validate() error {
	if c.EndpointURL != "" {
		return nil
	}
	if c.SubscriptionID == "" {
		return fmt.Errorf("HOMELAB_SUBSCRIPTION_ID is required")
	}
	if c.ResourceGroup == "" {
		return fmt.Errorf("HOMELAB_RESOURCE_GROUP is required")
	}
	return nil
}

// Tags returns the standard resource tags for this environment.
func (c Config) Tags() map[string]*string {
	env := c.Environment
	project := c.Project
	return map[string]*string{
		"environment":     &env,
		"project":         &project,
		"homelab-managed": ptr("true"),
	}
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(home, ".homelab", "logs")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func ptr(s string) *string { return &s }
