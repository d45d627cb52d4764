// Package config loads runtime configuration for the NoteVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config, or by the
//     NOTEVAULT_CLIENT_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-t int      request timeout (seconds)
//	-e string   directory for downloaded exports
//
// # JSON schema
//
// Durations are timex.Duration values, so either "10s" or integer
// nanoseconds are accepted:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "export_dir": "exports"
//	}
package config
