// Package config loads the flightsearch configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/flightsearch/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/flightsearch/config.toml
//   - Database: ~/.local/share/flightsearch/flightsearch.db
//   - Log file: ~/.local/share/flightsearch/flightsearch.log
//   - Log level: info
//   - Autocomplete debounce: 500ms
//   - Seed on empty database: true
//
// # TOML Format
//
//	database_path = "~/.local/share/flightsearch/flightsearch.db"
//	log_path = "~/.local/share/flightsearch/flightsearch.log"
//	log_level = "info"
//	debounce_ms = 500
//	seed_on_empty = true
//
// Every field is optional. Tilde expansion is performed on paths, and the
// special database path ":memory:" is passed through untouched.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and negative debounce_ms
//
// Missing config files are NOT an error. flightsearch works out of the box
// with the bundled airport dataset.
package config
