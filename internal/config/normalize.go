package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeServer(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeClassifier()
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}

	dataDir, err := expandPath(c.Server.DataDir)
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir, err = expandPath(defaultDataDir)
		if err != nil {
			return err
		}
	}
	c.Server.DataDir = dataDir

	logDir, err := expandPath(c.Server.LogDir)
	if err != nil {
		return err
	}
	if logDir == "" {
		logDir, err = expandPath(defaultLogDir)
		if err != nil {
			return err
		}
	}
	c.Server.LogDir = logDir
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func (c *Config) normalizeClassifier() {
	c.Classifier.APIKey = strings.TrimSpace(c.Classifier.APIKey)
	if c.Classifier.APIKey == "" {
		c.Classifier.APIKey = strings.TrimSpace(os.Getenv("COURSES_LLM_API_KEY"))
	}
	c.Classifier.BaseURL = strings.TrimSpace(c.Classifier.BaseURL)
	if c.Classifier.BaseURL == "" {
		c.Classifier.BaseURL = defaultClassifierBaseURL
	}
	c.Classifier.Model = strings.TrimSpace(c.Classifier.Model)
	if c.Classifier.Model == "" {
		c.Classifier.Model = defaultClassifierModel
	}
	if c.Classifier.AssignTimeoutSeconds <= 0 {
		c.Classifier.AssignTimeoutSeconds = defaultAssignTimeoutSeconds
	}
	if c.Classifier.ImportTimeoutSeconds <= 0 {
		c.Classifier.ImportTimeoutSeconds = defaultImportTimeoutSeconds
	}
}
