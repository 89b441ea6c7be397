// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/capsule/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/capsule/config.cue on macOS, %APPDATA%\capsule\config.cue
// on Windows). The package provides type-safe configuration access and supports container
// engine selection, environment resolution strictness, output format, and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
