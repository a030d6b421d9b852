package mediacache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/eranshir/scenic/internal/client/store"
	"github.com/eranshir/scenic/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type fakeOrigin struct {
	data map[string][]byte
	err  error
}

func (f *fakeOrigin) Fetch(_ context.Context, storageKey string, variant models.MediaVariant) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.data[ObjectKey(storageKey, variant)]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

func setupManager(t *testing.T) (*Manager, *store.Store, *fakeOrigin) {
	t.Helper()
	st, err := store.Open(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	origin := &fakeOrigin{data: map[string][]byte{}}
	m, err := NewManager(t.TempDir(), st, origin, logging.NewJSON(io.Discard))
	require.NoError(t, err)
	return m, st, origin
}

// seedMedia inserts a spot with n media rows and registers each payload
// with the origin. Media ids are spot-1-m0..m(n-1).
func seedMedia(t *testing.T, st *store.Store, origin *fakeOrigin, n int) []string {
	t.Helper()
	now := time.Unix(1700000000, 0).UTC()
	spot := &models.Spot{
		ID:        "spot-1",
		Title:     "Basalt columns",
		Location:  models.Coordinate{Latitude: 33.2, Longitude: 35.6},
		Privacy:   models.PrivacyPublic,
		Status:    models.SpotStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
		SyncState: models.NewLocalSyncState(),
	}
	var ids []string
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("spot-1-m%d", i)
		key := "payload-" + id
		spot.Media = append(spot.Media, &models.Media{
			ID: id, Type: models.MediaTypePhoto, StorageKey: key,
			CreatedAt: now, UpdatedAt: now,
			SyncState: models.NewLocalSyncState(),
		})
		origin.data[ObjectKey(key, models.VariantThumbnail)] = []byte("thumb-" + id)
		origin.data[ObjectKey(key, models.VariantFull)] = []byte("full-" + id)
		ids = append(ids, id)
	}
	require.NoError(t, st.UpsertSpot(context.Background(), spot))
	return ids
}

func TestEnsureCached_MissFetchesAndFlagsAtomically(t *testing.T) {
	m, st, origin := setupManager(t)
	ctx := context.Background()
	ids := seedMedia(t, st, origin, 1)

	path, err := m.EnsureCached(ctx, ids[0], models.VariantThumbnail)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb-"+ids[0]), data)

	cached, err := m.IsCached(ctx, ids[0], models.VariantThumbnail)
	require.NoError(t, err)
	assert.True(t, cached)

	// the other variant is untouched
	cached, err = m.IsCached(ctx, ids[0], models.VariantFull)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestEnsureCached_HitSkipsOrigin(t *testing.T) {
	m, st, origin := setupManager(t)
	ctx := context.Background()
	ids := seedMedia(t, st, origin, 1)

	path, err := m.EnsureCached(ctx, ids[0], models.VariantFull)
	require.NoError(t, err)

	// origin failures must not matter once the file is on disk
	origin.err = errors.New("origin down")
	again, err := m.EnsureCached(ctx, ids[0], models.VariantFull)
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestEnsureCached_FetchFailureLeavesFlagUnset(t *testing.T) {
	m, st, origin := setupManager(t)
	ctx := context.Background()
	ids := seedMedia(t, st, origin, 1)

	origin.err = errors.New("origin down")
	_, err := m.EnsureCached(ctx, ids[0], models.VariantThumbnail)
	require.Error(t, err)

	cached, err := m.IsCached(ctx, ids[0], models.VariantThumbnail)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NoFileExists(t, m.Path(ids[0], models.VariantThumbnail))
}

func TestEnsureCached_RefetchesWhenFileGone(t *testing.T) {
	m, st, origin := setupManager(t)
	ctx := context.Background()
	ids := seedMedia(t, st, origin, 1)

	path, err := m.EnsureCached(ctx, ids[0], models.VariantThumbnail)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	// flag still set but file gone: the hit check must fall through
	path, err = m.EnsureCached(ctx, ids[0], models.VariantThumbnail)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestEvict_RemovesFileAndFlag(t *testing.T) {
	m, st, origin := setupManager(t)
	ctx := context.Background()
	ids := seedMedia(t, st, origin, 1)

	path, err := m.EnsureCached(ctx, ids[0], models.VariantFull)
	require.NoError(t, err)

	require.NoError(t, m.Evict(ctx, ids[0], models.VariantFull))
	assert.NoFileExists(t, path)

	cached, err := m.IsCached(ctx, ids[0], models.VariantFull)
	require.NoError(t, err)
	assert.False(t, cached)

	// evicting again is a no-op
	require.NoError(t, m.Evict(ctx, ids[0], models.VariantFull))
}

func TestClear_EmptiesDirAndFlags(t *testing.T) {
	m, st, origin := setupManager(t)
	ctx := context.Background()
	ids := seedMedia(t, st, origin, 3)

	for _, id := range ids {
		_, err := m.EnsureCached(ctx, id, models.VariantThumbnail)
		require.NoError(t, err)
	}

	require.NoError(t, m.Clear(ctx))

	flagged, err := st.ListCachedMedia(ctx, models.VariantThumbnail)
	require.NoError(t, err)
	assert.Empty(t, flagged)
	for _, id := range ids {
		assert.NoFileExists(t, m.Path(id, models.VariantThumbnail))
	}
}

func TestVerifyConsistency_ReportsExactlyTheMissingFiles(t *testing.T) {
	m, st, origin := setupManager(t)
	ctx := context.Background()
	ids := seedMedia(t, st, origin, 10)

	for _, id := range ids {
		_, err := m.EnsureCached(ctx, id, models.VariantThumbnail)
		require.NoError(t, err)
	}

	// lose three files out-of-band
	for _, id := range ids[:3] {
		require.NoError(t, os.Remove(m.Path(id, models.VariantThumbnail)))
	}

	mismatches, err := m.VerifyConsistency(ctx)
	require.NoError(t, err)
	require.Len(t, mismatches, 3)
	for _, mm := range mismatches {
		assert.Contains(t, ids[:3], mm.MediaID)
		assert.Equal(t, models.VariantThumbnail, mm.Variant)
	}

	// verification alone changes nothing
	cached, err := m.IsCached(ctx, ids[0], models.VariantThumbnail)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestRepairFlags_ClearsOnlyMismatched(t *testing.T) {
	m, st, origin := setupManager(t)
	ctx := context.Background()
	ids := seedMedia(t, st, origin, 5)

	for _, id := range ids {
		_, err := m.EnsureCached(ctx, id, models.VariantFull)
		require.NoError(t, err)
	}
	for _, id := range ids[:2] {
		require.NoError(t, os.Remove(m.Path(id, models.VariantFull)))
	}

	repaired, err := m.RepairFlags(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)

	flagged, err := st.ListCachedMedia(ctx, models.VariantFull)
	require.NoError(t, err)
	assert.Len(t, flagged, 3)

	mismatches, err := m.VerifyConsistency(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}
