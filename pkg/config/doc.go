// Package config provides configuration management for toggler.
//
// Configuration is resolved in three layers, each overriding the previous:
//
//   - built-in defaults
//   - $TOGGLER_CONFIG_PATH/toggler.yml (default /etc/toggler/config/toggler.yml)
//   - TOGGLER_* environment variables
//
// Every attribute remembers which layer supplied it so that
// "togglectl configuration show" can report it.
//
// # Key Configuration Options
//
//   - TOGGLER_BIND_ADDRESS, TOGGLER_PORT (or PORT): listen address
//   - TOGGLER_LOG_LEVEL, TOGGLER_LOG_FORMAT: logging
//   - TOGGLER_API_URL: base URL used by the UI and CLI
//   - TOGGLER_UI_ENABLED: mount the HTML pages
//   - DATABASE_URL: PostgreSQL connection, read by package db
package config
