// Package services implements the synchronization engine: the per-type
// sync tracker that rate-limits pulls, and the push/pull service that moves
// records between the local store and the remote service.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/eranshir/scenic/internal/client/repositories/syncstate"
)

// DefaultMinSyncInterval is the minimum spacing between pulls of the same
// entity type when no explicit interval is configured.
const DefaultMinSyncInterval = 300 * time.Second

// Tracker decides when a pull for an entity type is due, based on the
// persisted per-type timestamps. It never blocks a push.
type Tracker struct {
	repo        syncstate.Repository
	minInterval time.Duration
	now         func() time.Time
}

// NewTracker creates a tracker over the given repository. A non-positive
// interval falls back to DefaultMinSyncInterval.
func NewTracker(repo syncstate.Repository, minInterval time.Duration) *Tracker {
	if minInterval <= 0 {
		minInterval = DefaultMinSyncInterval
	}
	return &Tracker{repo: repo, minInterval: minInterval, now: time.Now}
}

// LastSync returns the last recorded sync time for the type, or nil when
// the type has never synced.
func (t *Tracker) LastSync(ctx context.Context, et models.EntityType) (*time.Time, error) {
	ts, err := t.repo.Get(ctx, et)
	if err != nil {
		return nil, fmt.Errorf("tracker: %w", err)
	}
	return ts, nil
}

// RecordSync stamps the type with the current time after a completed pull.
func (t *Tracker) RecordSync(ctx context.Context, et models.EntityType) error {
	if err := t.repo.Set(ctx, et, t.now().UTC()); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}
	return nil
}

// ShouldSync reports whether enough time has passed since the last pull of
// the type. A type with no recorded timestamp is always due.
func (t *Tracker) ShouldSync(ctx context.Context, et models.EntityType) (bool, error) {
	ts, err := t.repo.Get(ctx, et)
	if err != nil {
		return false, fmt.Errorf("tracker: %w", err)
	}
	if ts == nil {
		return true, nil
	}
	return t.now().Sub(*ts) >= t.minInterval, nil
}

// Reset clears the timestamp for one type so the next pull goes through.
func (t *Tracker) Reset(ctx context.Context, et models.EntityType) error {
	if err := t.repo.Delete(ctx, et); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}
	return nil
}

// ResetAll clears every timestamp (forced full resync).
func (t *Tracker) ResetAll(ctx context.Context) error {
	if err := t.repo.Clear(ctx); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}
	return nil
}
