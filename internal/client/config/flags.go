package config

import (
	"flag"
	"os"
	"time"

	"github.com/eranshir/scenic/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend HTTP endpoint (default from Config)
//	-d string   path of the local SQLite database
//	-m string   directory of the on-disk media cache
//	-i int      minimum pull interval in seconds
//	-t int      cache TTL in seconds
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-i", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.CacheDir, "m", cfg.CacheDir, "media cache directory")
	syncMinInterval := fs.Int("i", int(cfg.SyncMinInterval.Seconds()), "minimum pull interval (in seconds)")
	cacheTTL := fs.Int("t", int(cfg.CacheTTL.Seconds()), "cache TTL (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncMinInterval = time.Duration(*syncMinInterval) * time.Second
	cfg.CacheTTL = time.Duration(*cacheTTL) * time.Second
}
