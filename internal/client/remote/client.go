// Package remote defines the client's view of the backing service and its
// HTTP/JSON implementation. The engine only depends on the Client
// interface; tests substitute fakes.
package remote

import (
	"context"
	"time"

	"github.com/eranshir/scenic/internal/api"
)

// Client is the remote backing service. Publish calls are create/upsert by
// client id and return server-assigned identities; list calls return every
// record modified after the cursor, with no ordering guarantee beyond that.
type Client interface {
	PublishSpot(ctx context.Context, spot *api.SpotPayload) (*api.PublishSpotResponse, error)
	PublishComment(ctx context.Context, c *api.CommentPayload) (*api.PublishResponse, error)
	PublishPlan(ctx context.Context, p *api.PlanPayload) (*api.PublishPlanResponse, error)

	// List calls take a nil cursor to mean "everything".
	ListSpots(ctx context.Context, since *time.Time) ([]api.SpotPayload, error)
	ListComments(ctx context.Context, since *time.Time) ([]api.CommentPayload, error)
	ListPlans(ctx context.Context, since *time.Time) ([]api.PlanPayload, error)
}
