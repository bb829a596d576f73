// Package config provides the configuration for quire.
//
// Settings are resolved in layers, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. The TOML file (~/.config/quire/config.toml by default)
//  3. QUIRE_* environment variables
//
// Command line flags are applied by the caller on top of the result.
//
// # Configuration File
//
//	[editor]
//	quit_times = 3
//	welcome = true
//
//	[logging]
//	level = "info"           # debug, info, warn, error or none
//	file = "/tmp/quire.log"  # empty for the default under the cache dir
//
//	[watch]
//	enabled = true
//
// # Environment
//
// QUIRE_SECTION_SETTING maps to section.setting, so QUIRE_EDITOR_QUIT_TIMES
// sets editor.quit_times. QUIRE_LOG_LEVEL and QUIRE_LOG_FILE are shorthands
// for the logging settings.
package config
