// Package comments persists the threaded comments attached to spots.
package comments

import (
	"context"

	"github.com/eranshir/scenic/internal/client/models"
)

// Repository is the storage contract for comment rows.
type Repository interface {
	Upsert(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// ListBySpot returns a spot's comments oldest first; replies carry
	// their parent id and are threaded by the caller.
	ListBySpot(ctx context.Context, spotID string) ([]*models.Comment, error)

	// ListDrafts returns local-only, unpublished comments (push candidates).
	ListDrafts(ctx context.Context) ([]*models.Comment, error)

	Delete(ctx context.Context, id string) error
}
