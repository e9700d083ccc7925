// Command togglectl runs and administers the toggle administration service.
//
// A toggle activates one feature for one (group, product, environment)
// combination. The server exposes a JSON API for features, products,
// environments, groups and toggles, plus server-rendered pages under /ui.
//
// # Quick Start
//
//	# Run database migrations
//	togglectl db migrate
//
//	# Start the server (migrates again unless --no-migrate)
//	togglectl server
//
//	# Wait for it, then load a catalog
//	togglectl wait
//	togglectl catalog apply catalog.yml
//
//	# Manage entities through the API
//	togglectl features create --name dark-mode --type boolean --owner team-x
//	togglectl toggles list --feature-id <id>
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - TOGGLER_CONFIG_PATH: directory holding toggler.yml (default: /etc/toggler/config)
//   - TOGGLER_BIND_ADDRESS, PORT or TOGGLER_PORT: listen address
//   - TOGGLER_LOG_LEVEL, TOGGLER_LOG_FORMAT: logging (debug, info, warn, error; text or json)
//   - TOGGLER_API_URL: API base URL used by the client commands
//   - TOGGLER_UI_ENABLED: serve the /ui pages (default: true)
package main
