// Package cli implements the scenic command-line client: local authoring
// commands over the store, explicit sync triggers, and cache maintenance.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/eranshir/scenic/internal/client/config"
	"github.com/eranshir/scenic/internal/client/mediacache"
	"github.com/eranshir/scenic/internal/client/remote"
	"github.com/eranshir/scenic/internal/client/services"
	"github.com/eranshir/scenic/internal/client/store"
	"github.com/eranshir/scenic/internal/logging"
)

// App wires the client components together for the lifetime of one command
// invocation.
type App struct {
	Config *config.Config
	Log    logging.Logger

	Store   *store.Store
	Remote  remote.Client
	Tracker *services.Tracker
	Sync    *services.SyncService
	Cache   *mediacache.Manager
}

// NewApp builds an unopened app from configuration.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	return &App{Config: cfg, Log: log}
}

// Open initializes the store, remote client, sync engine and media cache.
func (a *App) Open(ctx context.Context) error {
	st, err := store.Open(ctx, a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	a.Store = st

	a.Remote = remote.NewHTTPClient(a.Config.ServerBaseURL)
	a.Tracker = services.NewTracker(st.SyncState(), a.Config.SyncMinInterval)
	a.Sync = services.NewSyncService(st, a.Remote, a.Tracker, a.Config.CacheTTL, a.Log)

	origin, err := mediacache.NewS3Origin(ctx, mediacache.S3Config{
		Region:       a.Config.S3Region,
		BaseEndpoint: a.Config.S3BaseEndpoint,
		AccessKey:    a.Config.S3AccessKey,
		SecretKey:    a.Config.S3SecretKey,
		Bucket:       a.Config.S3Bucket,
	})
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("init media origin: %w", err)
	}
	cache, err := mediacache.NewManager(a.Config.CacheDir, st, origin, a.Log)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("init media cache: %w", err)
	}
	a.Cache = cache
	return nil
}

// Close releases the store.
func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
}

// Run executes the root command and returns a process exit code.
func Run() int {
	cfg := config.LoadConfig()
	log := logging.NewJSON(os.Stderr)

	app := NewApp(cfg, log)
	if err := NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
