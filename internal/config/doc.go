// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the --config flag, then from config.cue in the user
// configuration directory ($XDG_CONFIG_HOME/pzmm on Linux, ~/Library/Application
// Support/pzmm on macOS, %APPDATA%\pzmm on Windows), then from ./config.cue. A missing
// file means defaults. Files are validated against the embedded CUE schema
// (config_schema.cue) before being merged over the defaults, and PZMM_-prefixed
// environment variables override both.
package config
