// Package logging builds the slog loggers used across the daemon and CLI.
//
// Two formats are supported: a compact console layout for interactive use and
// JSON for machine consumption. Output can fan out to stdout and a log file
// inside the configured log directory.
package logging
