// Package mediacache manages the on-disk cache of media payloads. Files
// live in a flat directory keyed by media id and variant; the database
// cache flags are the authoritative claim of what is cached, and this
// package is the only writer of both sides.
package mediacache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/eranshir/scenic/internal/common"
	"github.com/eranshir/scenic/internal/filex"
	"github.com/eranshir/scenic/internal/logging"
)

// mediaStore is the slice of the local store the cache manager needs.
type mediaStore interface {
	GetMedia(ctx context.Context, id string) (*models.Media, error)
	SetMediaCached(ctx context.Context, id string, variant models.MediaVariant, cached bool) error
	ListCachedMedia(ctx context.Context, variant models.MediaVariant) ([]*models.Media, error)
	ResetAllCacheFlags(ctx context.Context) error
}

// Mismatch is one rendition whose cache flag is set while its backing file
// is missing. Unflagged files are invisible to the cache and are cleaned up
// by Clear, so this is the only inconsistency class reported.
type Mismatch struct {
	MediaID string
	Variant models.MediaVariant
}

// Manager is the media cache manager for one cache directory.
type Manager struct {
	dir    string
	store  mediaStore
	origin Origin
	log    logging.Logger
}

// NewManager creates the cache directory if needed and returns a manager
// over it.
func NewManager(dir string, st mediaStore, origin Origin, log logging.Logger) (*Manager, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &Manager{
		dir:    dir,
		store:  st,
		origin: origin,
		log:    log.With("component", "mediacache"),
	}, nil
}

// Path returns where the given rendition lives on disk, whether or not it
// is currently cached.
func (m *Manager) Path(mediaID string, variant models.MediaVariant) string {
	return filepath.Join(m.dir, mediaID+"_"+string(variant))
}

// IsCached reports the database claim for the rendition. It does not stat
// the filesystem; use VerifyConsistency for that.
func (m *Manager) IsCached(ctx context.Context, mediaID string, variant models.MediaVariant) (bool, error) {
	rec, err := m.store.GetMedia(ctx, mediaID)
	if err != nil {
		return false, err
	}
	return rec.CachedFlag(variant), nil
}

// EnsureCached returns the on-disk path of the rendition, fetching it from
// the origin on a miss. The file is written atomically before the flag is
// flipped, so a flag set in the database always has a complete file behind
// it. A failed fetch leaves both sides untouched.
func (m *Manager) EnsureCached(ctx context.Context, mediaID string, variant models.MediaVariant) (string, error) {
	rec, err := m.store.GetMedia(ctx, mediaID)
	if err != nil {
		return "", err
	}
	path := m.Path(mediaID, variant)
	if rec.CachedFlag(variant) && filex.Exists(path) {
		return path, nil
	}

	data, err := m.origin.Fetch(ctx, rec.StorageKey, variant)
	if err != nil {
		return "", fmt.Errorf("fetch media %s (%s): %w", mediaID, variant, err)
	}
	if err := filex.WriteAtomic(path, data); err != nil {
		return "", fmt.Errorf("cache media %s (%s): %w", mediaID, variant, err)
	}
	if err := m.store.SetMediaCached(ctx, mediaID, variant, true); err != nil {
		return "", err
	}
	m.log.Debug(ctx, "media cached", "id", mediaID, "variant", string(variant), "bytes", len(data))
	return path, nil
}

// Evict removes one rendition from disk and clears its flag. A missing
// file is not an error.
func (m *Manager) Evict(ctx context.Context, mediaID string, variant models.MediaVariant) error {
	if err := os.Remove(m.Path(mediaID, variant)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("evict media %s (%s): %w", mediaID, variant, err)
	}
	if err := m.store.SetMediaCached(ctx, mediaID, variant, false); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}

// Clear empties the cache directory and resets every flag.
func (m *Manager) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, e.Name())); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}
	if err := m.store.ResetAllCacheFlags(ctx); err != nil {
		return err
	}
	m.log.Info(ctx, "media cache cleared", "dir", m.dir)
	return nil
}

// VerifyConsistency compares every set cache flag against the filesystem
// and reports the disagreements. It changes nothing; RepairFlags applies
// the fix.
func (m *Manager) VerifyConsistency(ctx context.Context) ([]Mismatch, error) {
	var mismatches []Mismatch
	for _, variant := range []models.MediaVariant{models.VariantThumbnail, models.VariantFull} {
		flagged, err := m.store.ListCachedMedia(ctx, variant)
		if err != nil {
			return nil, err
		}
		for _, rec := range flagged {
			if filex.Exists(m.Path(rec.ID, variant)) {
				continue
			}
			mismatches = append(mismatches, Mismatch{MediaID: rec.ID, Variant: variant})
		}
	}
	if len(mismatches) > 0 {
		m.log.Warn(ctx, "media cache inconsistent", "mismatches", len(mismatches))
	}
	return mismatches, nil
}

// RepairFlags clears the flag of every rendition whose backing file is
// gone and returns how many were repaired.
func (m *Manager) RepairFlags(ctx context.Context) (int, error) {
	mismatches, err := m.VerifyConsistency(ctx)
	if err != nil {
		return 0, err
	}
	for _, mm := range mismatches {
		if err := m.store.SetMediaCached(ctx, mm.MediaID, mm.Variant, false); err != nil {
			return 0, fmt.Errorf("%w: repair %s (%s): %w", common.ErrCacheInconsistent, mm.MediaID, mm.Variant, err)
		}
	}
	return len(mismatches), nil
}
