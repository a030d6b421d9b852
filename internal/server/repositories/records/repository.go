// Package records provides PostgreSQL-backed storage for published
// documents: spots, comments and plans each live in their own table of the
// same shape.
package records

import (
	"context"
	"time"

	"github.com/eranshir/scenic/internal/server/models"
)

// Repository stores one table of published documents.
type Repository interface {
	// Get returns the record with the given client id, or
	// common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Record, error)

	// Upsert creates or replaces the record by client id. The remote id
	// of an existing row is preserved; the stored remote id is returned
	// either way.
	Upsert(ctx context.Context, rec *models.Record) (string, error)

	// SelectUpdatedSince returns every record with UpdatedAt after the
	// cursor; a nil cursor returns everything.
	SelectUpdatedSince(ctx context.Context, since *time.Time) ([]*models.Record, error)
}
