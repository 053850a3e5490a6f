package testsupport

import (
	"path/filepath"
	"testing"

	"courses/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Server.DataDir = filepath.Join(base, "data")
	cfg.Server.LogDir = filepath.Join(base, "logs")
	cfg.Auth.Required = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAuthRequired enables the access-token gate on the test config.
func WithAuthRequired() ConfigOption {
	return func(c *config.Config) {
		c.Auth.Required = true
	}
}

// WithClassifier points the test config at a stub classifier endpoint.
func WithClassifier(baseURL, apiKey string) ConfigOption {
	return func(c *config.Config) {
		c.Classifier.BaseURL = baseURL
		c.Classifier.APIKey = apiKey
	}
}
