// Package config loads runtime configuration for the gophdrive client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-t int      request timeout (seconds)
//	-s string   session database file
//	-d string   download directory
//	-r string   start path, e.g. /activate/<token> or /reset-password/<token>
//	-v          verbose logging
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "30s" or integer nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "server_base_url": "http://localhost:5000/api",
//	  "request_timeout": "30s",
//	  "session_db_path": "session.db",
//	  "download_dir": "download",
//	  "verbose": false
//	}
package config
