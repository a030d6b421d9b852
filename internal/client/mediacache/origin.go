package mediacache

import (
	"context"

	"github.com/eranshir/scenic/internal/client/models"
)

// Origin is the remote payload store the cache fills from. Fetch returns
// the bytes of one rendition of a media payload.
type Origin interface {
	Fetch(ctx context.Context, storageKey string, variant models.MediaVariant) ([]byte, error)
}
