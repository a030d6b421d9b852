// Package config loads runtime configuration for the Scenic client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP endpoint
//	-d string   path of the local SQLite database
//	-m string   directory of the on-disk media cache
//	-i int      minimum interval between pulls of one entity type (seconds)
//	-t int      cache TTL applied to pulled records (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "300s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "database_path": "scenic.db",
//	  "cache_dir": "media-cache",
//	  "sync_min_interval": "300s",
//	  "cache_ttl": "1h",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "...",
//	  "s3_secret_key": "...",
//	  "s3_bucket": "scenic-media"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
