// Package spots persists spot records and their owned singleton children
// (sun snapshot, weather snapshot, access info) in the client database.
package spots

import (
	"context"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
)

// Repository is the storage contract for spot rows. Owned list children
// (media, comments) live in their own repositories; the store facade wires
// them together.
type Repository interface {
	// Upsert inserts or updates a spot row by id. Applying the same upsert
	// twice yields the same final state.
	Upsert(ctx context.Context, s *models.Spot) error

	// GetByID returns the spot row without children, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Spot, error)

	// List returns all spot rows.
	List(ctx context.Context) ([]*models.Spot, error)

	// ListDrafts returns local-only, unpublished spots (push candidates).
	ListDrafts(ctx context.Context) ([]*models.Spot, error)

	// ListStale returns remote-origin spots whose cache expiry has passed.
	ListStale(ctx context.Context, now time.Time) ([]*models.Spot, error)

	// Delete removes a spot; the schema cascades to everything it owns.
	Delete(ctx context.Context, id string) error

	// UpsertSun replaces the spot's sun snapshot (at most one per spot).
	UpsertSun(ctx context.Context, snap *models.SunSnapshot) error

	// UpsertWeather replaces the spot's weather snapshot.
	UpsertWeather(ctx context.Context, snap *models.WeatherSnapshot) error

	// UpsertAccess replaces the spot's access info.
	UpsertAccess(ctx context.Context, info *models.AccessInfo) error

	// GetSun/GetWeather/GetAccess return the owned singleton or nil.
	GetSun(ctx context.Context, spotID string) (*models.SunSnapshot, error)
	GetWeather(ctx context.Context, spotID string) (*models.WeatherSnapshot, error)
	GetAccess(ctx context.Context, spotID string) (*models.AccessInfo, error)
}
