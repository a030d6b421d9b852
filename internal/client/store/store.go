// Package store assembles the client repositories into the Local Store: a
// single SQLite database holding every domain entity, opened with the
// embedded schema migrations applied.
//
// All mutating operations are serialized through one writer lock, so
// concurrent upserts from the push and pull paths cannot interleave.
// Each composite upsert runs in a single transaction; cancellation between
// operations can only lose whole records, never tear one.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/eranshir/scenic/internal/client/repositories/comments"
	"github.com/eranshir/scenic/internal/client/repositories/media"
	"github.com/eranshir/scenic/internal/client/repositories/plans"
	"github.com/eranshir/scenic/internal/client/repositories/spots"
	"github.com/eranshir/scenic/internal/client/repositories/syncstate"
	"github.com/eranshir/scenic/internal/client/store/migrations"
	"github.com/eranshir/scenic/internal/dbx"
	"github.com/pressly/goose/v3"
)

// Store is the durable local store for one device and one signed-in
// identity.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the client database at dsn and applies
// migrations. Foreign keys are enabled so deletes cascade to owned rows.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return New(db), nil
}

// New wraps an already opened and migrated database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SyncState returns the key→timestamp repository used by the sync tracker.
// It shares the database file but not the entity tables, and is safe to
// clear independently.
func (s *Store) SyncState() syncstate.Repository {
	return syncstate.NewSQLiteRepository(s.db)
}

func (s *Store) write(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// UpsertSpot writes the spot row and every owned child present on the
// struct in one transaction. Children are attached by identity, so
// re-applying the same upsert yields the same final state with no
// duplicated rows.
func (s *Store) UpsertSpot(ctx context.Context, spot *models.Spot) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		spotRepo := spots.NewSQLiteRepository(tx)
		if err := spotRepo.Upsert(ctx, spot); err != nil {
			return err
		}
		if spot.Sun != nil {
			spot.Sun.SpotID = spot.ID
			if err := spotRepo.UpsertSun(ctx, spot.Sun); err != nil {
				return err
			}
		}
		if spot.Weather != nil {
			spot.Weather.SpotID = spot.ID
			if err := spotRepo.UpsertWeather(ctx, spot.Weather); err != nil {
				return err
			}
		}
		if spot.Access != nil {
			spot.Access.SpotID = spot.ID
			if err := spotRepo.UpsertAccess(ctx, spot.Access); err != nil {
				return err
			}
		}
		mediaRepo := media.NewSQLiteRepository(tx)
		for _, m := range spot.Media {
			m.SpotID = spot.ID
			if err := mediaRepo.Upsert(ctx, m); err != nil {
				return err
			}
		}
		commentRepo := comments.NewSQLiteRepository(tx)
		for _, c := range spot.Comments {
			c.SpotID = spot.ID
			if err := commentRepo.Upsert(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetSpot loads a spot and all of its children, or common.ErrNotFound.
func (s *Store) GetSpot(ctx context.Context, id string) (*models.Spot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spotRepo := spots.NewSQLiteRepository(s.db)
	spot, err := spotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.attachSpotChildren(ctx, spot)
}

func (s *Store) attachSpotChildren(ctx context.Context, spot *models.Spot) (*models.Spot, error) {
	spotRepo := spots.NewSQLiteRepository(s.db)

	var err error
	if spot.Sun, err = spotRepo.GetSun(ctx, spot.ID); err != nil {
		return nil, err
	}
	if spot.Weather, err = spotRepo.GetWeather(ctx, spot.ID); err != nil {
		return nil, err
	}
	if spot.Access, err = spotRepo.GetAccess(ctx, spot.ID); err != nil {
		return nil, err
	}
	if spot.Media, err = media.NewSQLiteRepository(s.db).ListBySpot(ctx, spot.ID); err != nil {
		return nil, err
	}
	if spot.Comments, err = comments.NewSQLiteRepository(s.db).ListBySpot(ctx, spot.ID); err != nil {
		return nil, err
	}
	return spot, nil
}

// ListSpots returns all spots without children.
func (s *Store) ListSpots(ctx context.Context) ([]*models.Spot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return spots.NewSQLiteRepository(s.db).List(ctx)
}

// QuerySpots returns spots (without children) matching the predicate.
func (s *Store) QuerySpots(ctx context.Context, match func(*models.Spot) bool) ([]*models.Spot, error) {
	all, err := s.ListSpots(ctx)
	if err != nil {
		return nil, err
	}
	var result []*models.Spot
	for _, spot := range all {
		if match(spot) {
			result = append(result, spot)
		}
	}
	return result, nil
}

// ListDraftSpots returns unpublished local spots with their media attached,
// ready for push.
func (s *Store) ListDraftSpots(ctx context.Context) ([]*models.Spot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drafts, err := spots.NewSQLiteRepository(s.db).ListDrafts(ctx)
	if err != nil {
		return nil, err
	}
	mediaRepo := media.NewSQLiteRepository(s.db)
	for _, spot := range drafts {
		if spot.Media, err = mediaRepo.ListBySpot(ctx, spot.ID); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

// ListStaleSpots returns remote-backed spots (without children) whose cache
// expiry has passed and which are due a refresh.
func (s *Store) ListStaleSpots(ctx context.Context, now time.Time) ([]*models.Spot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return spots.NewSQLiteRepository(s.db).ListStale(ctx, now)
}

// DeleteSpot removes the spot; media rows, snapshots, access info and
// comments cascade with it.
func (s *Store) DeleteSpot(ctx context.Context, id string) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return spots.NewSQLiteRepository(tx).Delete(ctx, id)
	})
}

// UpsertMedia writes a single media row.
func (s *Store) UpsertMedia(ctx context.Context, m *models.Media) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return media.NewSQLiteRepository(tx).Upsert(ctx, m)
	})
}

// GetMedia returns a media row or common.ErrNotFound.
func (s *Store) GetMedia(ctx context.Context, id string) (*models.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return media.NewSQLiteRepository(s.db).GetByID(ctx, id)
}

// DeleteMedia removes one media row; its spot is untouched.
func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return media.NewSQLiteRepository(tx).Delete(ctx, id)
	})
}

// SetMediaCached flips one variant cache flag.
func (s *Store) SetMediaCached(ctx context.Context, id string, variant models.MediaVariant, cached bool) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return media.NewSQLiteRepository(tx).SetCachedFlag(ctx, id, variant, cached)
	})
}

// ListCachedMedia returns media claiming a cached copy of the variant.
func (s *Store) ListCachedMedia(ctx context.Context, variant models.MediaVariant) ([]*models.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return media.NewSQLiteRepository(s.db).ListWithCachedFlag(ctx, variant)
}

// ResetAllCacheFlags clears both variant flags on every media row.
func (s *Store) ResetAllCacheFlags(ctx context.Context) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return media.NewSQLiteRepository(tx).ResetCachedFlags(ctx)
	})
}

// UpsertComment writes one comment row.
func (s *Store) UpsertComment(ctx context.Context, c *models.Comment) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return comments.NewSQLiteRepository(tx).Upsert(ctx, c)
	})
}

// GetComment returns one comment row or common.ErrNotFound.
func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return comments.NewSQLiteRepository(s.db).GetByID(ctx, id)
}

// ListDraftComments returns unpublished local comments.
func (s *Store) ListDraftComments(ctx context.Context) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return comments.NewSQLiteRepository(s.db).ListDrafts(ctx)
}

// DeleteComment removes one comment row.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return comments.NewSQLiteRepository(tx).Delete(ctx, id)
	})
}

// UpsertPlan writes the plan row and its items in one transaction.
func (s *Store) UpsertPlan(ctx context.Context, p *models.Plan) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		planRepo := plans.NewSQLiteRepository(tx)
		if err := planRepo.Upsert(ctx, p); err != nil {
			return err
		}
		for i, item := range p.Items {
			item.PlanID = p.ID
			item.Position = i
			if err := planRepo.UpsertItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetPlan loads a plan and its ordered items, or common.ErrNotFound.
func (s *Store) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	planRepo := plans.NewSQLiteRepository(s.db)
	p, err := planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Items, err = planRepo.ItemsByPlan(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlans returns all plan rows without items.
func (s *Store) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return plans.NewSQLiteRepository(s.db).List(ctx)
}

// ListDraftPlans returns unpublished local plans with items attached.
func (s *Store) ListDraftPlans(ctx context.Context) ([]*models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	planRepo := plans.NewSQLiteRepository(s.db)
	drafts, err := planRepo.ListDrafts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range drafts {
		if p.Items, err = planRepo.ItemsByPlan(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

// DeletePlan removes the plan; its items cascade with it.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	return s.write(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return plans.NewSQLiteRepository(tx).Delete(ctx, id)
	})
}
