// Package config loads mcpdash configuration.
//
// # Resolution
//
//  1. Defaults
//  2. ~/.config/mcpdash/config.toml, or the path given with -config
//  3. MCPDASH_* environment variables (a .env file in the working directory
//     is loaded into the environment by the binary before Load runs)
//
// A missing file is not an error. An unparsable file, an unknown
// events_source, or a non-positive duration is.
//
// # TOML Format
//
//	api_url = "http://localhost:5000/api"
//	poll_interval = "5s"
//	request_timeout = "5s"
//	log_limit = 100
//	log_file = "~/mcp/server.log"   # optional, tail a local file for the logs panel
//	events_source = "placeholder"   # or "api"
//	toast_duration = "3s"
//	debug_log = "~/.local/state/mcpdash/mcpdash.log"
//
// Tilde expansion is applied to log_file and debug_log.
//
// # Environment
//
//   - MCPDASH_API_URL
//   - MCPDASH_POLL_INTERVAL
//   - MCPDASH_LOG_FILE
//   - MCPDASH_EVENTS_SOURCE
//   - MCPDASH_DEBUG_LOG
package config
