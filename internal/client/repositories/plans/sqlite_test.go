package plans

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE plans (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  is_local_only INTEGER NOT NULL DEFAULT 1,
  is_published INTEGER NOT NULL DEFAULT 0,
  remote_id TEXT,
  last_synced INTEGER,
  cache_expiry INTEGER
);
CREATE TABLE plan_items (
  id TEXT PRIMARY KEY,
  plan_id TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  kind TEXT NOT NULL DEFAULT 'spot',
  spot_id TEXT,
  place_name TEXT NOT NULL DEFAULT '',
  place_address TEXT NOT NULL DEFAULT '',
  place_lat REAL,
  place_lon REAL,
  place_category TEXT NOT NULL DEFAULT '',
  place_hours TEXT NOT NULL DEFAULT '',
  date INTEGER,
  start_time INTEGER,
  end_time INTEGER,
  timing TEXT NOT NULL DEFAULT 'any',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  is_local_only INTEGER NOT NULL DEFAULT 1,
  is_published INTEGER NOT NULL DEFAULT 0,
  remote_id TEXT,
  last_synced INTEGER,
  cache_expiry INTEGER
);
`)
	require.NoError(t, err)
	return db
}

func testPlan(id string) *models.Plan {
	now := time.Unix(1700000000, 0).UTC()
	return &models.Plan{
		ID:        id,
		Title:     "Golden hour tour",
		CreatedAt: now,
		UpdatedAt: now,
		SyncState: models.NewLocalSyncState(),
	}
}

func spotItem(id, planID, spotID string, pos int) *models.PlanItem {
	now := time.Unix(1700000000, 0).UTC()
	return &models.PlanItem{
		ID:        id,
		PlanID:    planID,
		Position:  pos,
		Kind:      models.PlanItemSpot,
		SpotID:    &spotID,
		Timing:    models.TimingSunset,
		CreatedAt: now,
		UpdatedAt: now,
		SyncState: models.NewLocalSyncState(),
	}
}

func TestUpsertItem_PolymorphicRoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, testPlan("p1")))
	require.NoError(t, r.UpsertItem(ctx, spotItem("i1", "p1", "spot-1", 0)))

	now := time.Unix(1700000000, 0).UTC()
	place := &models.PlanItem{
		ID:       "i2",
		PlanID:   "p1",
		Position: 1,
		Kind:     models.PlanItemPlace,
		Place: &models.PlaceDetails{
			Name:     "Harbor cafe",
			Address:  "12 Pier St",
			Location: &models.Coordinate{Latitude: 32.1, Longitude: 34.8},
			Category: "food",
			Hours:    "08:00-22:00",
		},
		Timing:    models.TimingAny,
		CreatedAt: now,
		UpdatedAt: now,
		SyncState: models.NewLocalSyncState(),
	}
	require.NoError(t, r.UpsertItem(ctx, place))

	items, err := r.ItemsByPlan(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, models.PlanItemSpot, items[0].Kind)
	require.NotNil(t, items[0].SpotID)
	assert.Equal(t, "spot-1", *items[0].SpotID)
	assert.Nil(t, items[0].Place)

	assert.Equal(t, models.PlanItemPlace, items[1].Kind)
	assert.Nil(t, items[1].SpotID)
	require.NotNil(t, items[1].Place)
	assert.Equal(t, "Harbor cafe", items[1].Place.Name)
	require.NotNil(t, items[1].Place.Location)
	assert.Equal(t, 34.8, items[1].Place.Location.Longitude)
}

func TestItemsByPlan_OrderedByPosition(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, testPlan("p1")))
	require.NoError(t, r.UpsertItem(ctx, spotItem("second", "p1", "s2", 1)))
	require.NoError(t, r.UpsertItem(ctx, spotItem("first", "p1", "s1", 0)))

	items, err := r.ItemsByPlan(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].ID)
	assert.Equal(t, "second", items[1].ID)
}

func TestUpsertItem_Idempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, testPlan("p1")))

	item := spotItem("i1", "p1", "spot-1", 0)
	require.NoError(t, r.UpsertItem(ctx, item))
	require.NoError(t, r.UpsertItem(ctx, item))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM plan_items`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestListDrafts(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	draft := testPlan("draft")
	require.NoError(t, r.Upsert(ctx, draft))

	published := testPlan("published")
	published.MarkPublished("srv-3", time.Unix(1700000100, 0), time.Hour)
	require.NoError(t, r.Upsert(ctx, published))

	drafts, err := r.ListDrafts(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "draft", drafts[0].ID)
}
