// Package config loads, normalizes, and validates Courses configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// COURSES_LLM_API_KEY. The Config type centralizes every knob the daemon and
// CLI need: bind address, data directory, logging, classifier credentials and
// timeouts, and the access gate.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
