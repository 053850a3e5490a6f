package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate reports configuration problems that would prevent the daemon from
// starting. It assumes normalize has already run.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateClassifier()
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q is not a host:port address: %w", c.Server.Bind, err)
	}
	if strings.TrimSpace(c.Server.DataDir) == "" {
		return fmt.Errorf("server.data_dir must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if c.Classifier.AssignTimeoutSeconds > c.Classifier.ImportTimeoutSeconds {
		return fmt.Errorf(
			"classifier.assign_timeout_seconds (%d) must not exceed classifier.import_timeout_seconds (%d)",
			c.Classifier.AssignTimeoutSeconds,
			c.Classifier.ImportTimeoutSeconds,
		)
	}
	return nil
}
