// Package config loads the ideas client configuration.
//
// # Resolution
//
// Load builds a Config in layers, later layers winning:
//
//  1. Built-in defaults
//  2. The TOML file at the given path, or ~/.config/ideas/config.toml
//  3. IDEAS_* environment variables, including any set by a .env file in the
//     working directory
//
// A missing config file is not an error. A file that exists but cannot be
// parsed is.
//
// # TOML Format
//
//	api_url = "https://api.example.com/api/ideas"
//	page_url = "https://ideas.example.com/ideas"
//	banner_source = "config.json"
//	state_dir = "~/.local/share/ideas/state"
//	log_file = "~/.local/state/ideas/ideas.log"
//	request_timeout = "10s"
//	metrics_addr = "127.0.0.1:9464"
//
// All fields are optional. Tilde expansion is applied to state_dir and
// log_file. A request_timeout of "0s" disables the per-request timeout, and
// an empty metrics_addr disables the metrics listener.
//
// # Environment
//
//	IDEAS_API_URL  IDEAS_PAGE_URL  IDEAS_BANNER_SOURCE  IDEAS_STATE_DIR
//	IDEAS_LOG_FILE  IDEAS_REQUEST_TIMEOUT  IDEAS_METRICS_ADDR
//
// # Validation
//
// The merged Config is checked with go-playground/validator: api_url and
// page_url must be URLs, request_timeout must not be negative and
// metrics_addr, when set, must be host:port.
package config
