// Package config loads satscope's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/satscope/config.toml
//  3. If the file doesn't exist, use Default()
//  4. Fields that are missing or blank keep their defaults
//
// Command-line flags are applied on top by the cli package.
//
// # Default Values
//
//   - Catalog base URL: https://backend.digantara.dev/v1
//   - Request timeout: 30s
//   - Log file: ~/.local/state/satscope/satscope.log
//   - Log level/format: info, text
//   - Metrics endpoint: disabled
//
// # TOML Format
//
//	base_url = "https://backend.digantara.dev/v1"
//	request_timeout = "30s"
//	log_file = "~/.local/state/satscope/satscope.log"   # "-" for stderr
//	log_level = "info"
//	log_format = "text"
//	metrics_addr = "127.0.0.1:9464"
//	default_object_types = ["PAYLOAD", "DEBRIS"]
//	default_orbit_codes = ["LEO"]
//	default_sort = "-launchDate"
//
// Object types are case-insensitive and accept dashes or underscores for
// spaces ("rocket-body"). Tilde expansion applies to log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and invalid values, prefixed "parse config"
package config
