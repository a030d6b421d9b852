package media

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/eranshir/scenic/internal/common"
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
CREATE TABLE media (
  id TEXT PRIMARY KEY,
  spot_id TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'photo',
  storage_key TEXT NOT NULL DEFAULT '',
  capture_time INTEGER,
  has_exif INTEGER NOT NULL DEFAULT 0,
  exif_make TEXT NOT NULL DEFAULT '',
  exif_model TEXT NOT NULL DEFAULT '',
  exif_lens TEXT NOT NULL DEFAULT '',
  exif_focal_length REAL,
  exif_aperture REAL,
  exif_shutter TEXT NOT NULL DEFAULT '',
  exif_iso INTEGER NOT NULL DEFAULT -1,
  exif_gps_lat REAL,
  exif_gps_lon REAL,
  exif_width INTEGER NOT NULL DEFAULT -1,
  exif_height INTEGER NOT NULL DEFAULT -1,
  exif_color_space TEXT NOT NULL DEFAULT '',
  presets TEXT NOT NULL DEFAULT '[]',
  filters TEXT NOT NULL DEFAULT '[]',
  thumbnail_cached INTEGER NOT NULL DEFAULT 0,
  full_cached INTEGER NOT NULL DEFAULT 0,
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

func testMedia(id, spotID string) *models.Media {
	now := time.Unix(1700000000, 0).UTC()
	return &models.Media{
		ID:         id,
		SpotID:     spotID,
		Type:       models.MediaTypePhoto,
		StorageKey: "spots/" + spotID + "/" + id,
		Presets:    []string{"vivid"},
		Filters:    []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncState:  models.NewLocalSyncState(),
	}
}

func TestUpsert_ExifRoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	iso := 100
	focal := 35.0
	aperture := 8.0
	width, height := 6000, 4000

	m := testMedia("m1", "spot-1")
	m.Exif = &models.ExifBlock{
		Make:        "Fujifilm",
		Model:       "X-T5",
		Lens:        "XF 23mm F2",
		FocalLength: &focal,
		Aperture:    &aperture,
		Shutter:     "1/250",
		ISO:         &iso,
		GPS:         &models.Coordinate{Latitude: 32.08, Longitude: 34.78},
		Width:       &width,
		Height:      &height,
		ColorSpace:  "sRGB",
	}
	require.NoError(t, r.Upsert(ctx, m))

	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got.Exif)
	assert.Equal(t, "Fujifilm", got.Exif.Make)
	require.NotNil(t, got.Exif.ISO)
	assert.Equal(t, 100, *got.Exif.ISO)
	require.NotNil(t, got.Exif.GPS)
	assert.Equal(t, 34.78, got.Exif.GPS.Longitude)
	assert.Equal(t, []string{"vivid"}, got.Presets)
	assert.Equal(t, []string{}, got.Filters)
}

func TestUpsert_NoExifStaysNil(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, testMedia("m1", "spot-1")))

	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got.Exif)
	assert.Nil(t, got.CaptureTime)
}

func TestUpsert_Idempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := testMedia("m1", "spot-1")
	require.NoError(t, r.Upsert(ctx, m))
	require.NoError(t, r.Upsert(ctx, m))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM media`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSetCachedFlag(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, testMedia("m1", "spot-1")))

	require.NoError(t, r.SetCachedFlag(ctx, "m1", models.VariantThumbnail, true))

	got, err := r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, got.ThumbnailCached)
	assert.False(t, got.FullCached, "variants are tracked independently")

	require.NoError(t, r.SetCachedFlag(ctx, "m1", models.VariantFull, true))
	require.NoError(t, r.SetCachedFlag(ctx, "m1", models.VariantThumbnail, false))

	got, err = r.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, got.ThumbnailCached)
	assert.True(t, got.FullCached)

	err = r.SetCachedFlag(ctx, "missing", models.VariantFull, true)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListWithCachedFlagAndReset(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Upsert(ctx, testMedia(id, "spot-1")))
	}
	require.NoError(t, r.SetCachedFlag(ctx, "a", models.VariantFull, true))
	require.NoError(t, r.SetCachedFlag(ctx, "b", models.VariantFull, true))

	cached, err := r.ListWithCachedFlag(ctx, models.VariantFull)
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	require.NoError(t, r.ResetCachedFlags(ctx))
	cached, err = r.ListWithCachedFlag(ctx, models.VariantFull)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestListBySpot_OrderedByCreation(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	older := testMedia("older", "spot-1")
	older.CreatedAt = time.Unix(1700000000, 0).UTC()
	newer := testMedia("newer", "spot-1")
	newer.CreatedAt = time.Unix(1700000100, 0).UTC()
	other := testMedia("other", "spot-2")

	require.NoError(t, r.Upsert(ctx, newer))
	require.NoError(t, r.Upsert(ctx, older))
	require.NoError(t, r.Upsert(ctx, other))

	got, err := r.ListBySpot(ctx, "spot-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "older", got[0].ID)
	assert.Equal(t, "newer", got[1].ID)
}
