package config

import "time"

// Config holds runtime settings for the Scenic client.
type Config struct {
	// ServerBaseURL is the base URL of the backend HTTP API.
	ServerBaseURL string

	// DatabasePath is the SQLite database file of the local store.
	DatabasePath string

	// CacheDir is the directory holding cached media payloads.
	CacheDir string

	// SyncMinInterval is the minimum spacing between pulls of one
	// entity type.
	SyncMinInterval time.Duration

	// CacheTTL bounds how long a pulled record is served before it is
	// considered stale.
	CacheTTL time.Duration

	// S3 settings of the media payload origin (AWS S3 or MinIO).
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "scenic.db"
	c.CacheDir = "media-cache"
	c.SyncMinInterval = 300 * time.Second
	c.CacheTTL = time.Hour
	c.S3Region = "us-east-1"
	c.S3Bucket = "scenic-media"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
