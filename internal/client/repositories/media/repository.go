// Package media persists media records, including their EXIF block and the
// per-variant cache flags maintained by the cache manager.
package media

import (
	"context"

	"github.com/eranshir/scenic/internal/client/models"
)

// Repository is the storage contract for media rows.
type Repository interface {
	// Upsert inserts or updates a media row by id, re-attaching it to its
	// spot by identity. Re-applying the same upsert never duplicates rows.
	Upsert(ctx context.Context, m *models.Media) error

	// GetByID returns the media row or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Media, error)

	// ListBySpot returns all media owned by a spot, oldest first.
	ListBySpot(ctx context.Context, spotID string) ([]*models.Media, error)

	// ListWithCachedFlag returns media whose flag for the given variant is set.
	ListWithCachedFlag(ctx context.Context, variant models.MediaVariant) ([]*models.Media, error)

	// SetCachedFlag flips a single variant flag without touching the rest
	// of the row.
	SetCachedFlag(ctx context.Context, id string, variant models.MediaVariant, cached bool) error

	// ResetCachedFlags clears both variant flags on every media row.
	ResetCachedFlags(ctx context.Context) error

	// Delete removes a media row. The owning spot is not affected.
	Delete(ctx context.Context, id string) error
}
