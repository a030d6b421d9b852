// Package syncstate persists the per-entity-type pull timestamps used by
// the sync tracker. The table is independent of entity data and safe to
// clear on its own (a cleared timestamp just forces the next pull through).
package syncstate

import (
	"context"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
)

// Repository is a key→timestamp store, one entry per entity type.
type Repository interface {
	// Get returns the last recorded sync time for the type, or nil when
	// none has been recorded.
	Get(ctx context.Context, t models.EntityType) (*time.Time, error)

	// Set records the sync time for the type, replacing any prior value.
	Set(ctx context.Context, t models.EntityType, at time.Time) error

	// Delete clears the timestamp for one type.
	Delete(ctx context.Context, t models.EntityType) error

	// Clear removes all timestamps (forced full resync).
	Clear(ctx context.Context) error

	// List returns every recorded timestamp keyed by type.
	List(ctx context.Context) (map[models.EntityType]time.Time, error)
}
