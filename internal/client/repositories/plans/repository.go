// Package plans persists plans and their ordered, polymorphic items.
package plans

import (
	"context"

	"github.com/eranshir/scenic/internal/client/models"
)

// Repository is the storage contract for plan and plan-item rows.
type Repository interface {
	// Upsert inserts or updates the plan row (items are separate).
	Upsert(ctx context.Context, p *models.Plan) error

	// GetByID returns the plan row without items, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Plan, error)

	// List returns all plan rows.
	List(ctx context.Context) ([]*models.Plan, error)

	// ListDrafts returns local-only, unpublished plans (push candidates).
	ListDrafts(ctx context.Context) ([]*models.Plan, error)

	// Delete removes a plan; the schema cascades to its items.
	Delete(ctx context.Context, id string) error

	// UpsertItem inserts or updates one item by id, keeping its plan
	// attachment and position.
	UpsertItem(ctx context.Context, item *models.PlanItem) error

	// ItemsByPlan returns a plan's items ordered by position.
	ItemsByPlan(ctx context.Context, planID string) ([]*models.PlanItem, error)

	// DeleteItem removes a single item.
	DeleteItem(ctx context.Context, id string) error
}
