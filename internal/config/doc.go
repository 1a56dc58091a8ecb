// Package config loads and validates the pulsecheck YAML configuration and
// watches the file for changes. Only the log level is applied at runtime on
// reload; port and dataset changes require a restart.
package config
