// Package config loads and validates application settings from defaults, an
// optional config.yaml and INBOX_* environment variables.
package config
