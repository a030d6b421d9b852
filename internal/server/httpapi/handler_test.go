package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eranshir/scenic/internal/api"
	"github.com/eranshir/scenic/internal/common"
	"github.com/eranshir/scenic/internal/logging"
	"github.com/eranshir/scenic/internal/server/models"
)

// memRepo is an in-memory records.Repository.
type memRepo struct {
	recs map[string]*models.Record
}

func newMemRepo() *memRepo {
	return &memRepo{recs: map[string]*models.Record{}}
}

func (m *memRepo) Get(_ context.Context, id string) (*models.Record, error) {
	rec, ok := m.recs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, common.ErrNotFound)
	}
	return rec, nil
}

func (m *memRepo) Upsert(_ context.Context, rec *models.Record) (string, error) {
	if existing, ok := m.recs[rec.ID]; ok {
		rec.RemoteID = existing.RemoteID
	}
	m.recs[rec.ID] = rec
	return rec.RemoteID, nil
}

func (m *memRepo) SelectUpdatedSince(_ context.Context, since *time.Time) ([]*models.Record, error) {
	var result []*models.Record
	for _, rec := range m.recs {
		if since == nil || rec.UpdatedAt.After(*since) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.Before(result[j].UpdatedAt) })
	return result, nil
}

func newTestHandler(t *testing.T) (*Handler, *memRepo, *memRepo, *memRepo) {
	t.Helper()
	spots, comments, plans := newMemRepo(), newMemRepo(), newMemRepo()
	h := NewHandler(spots, comments, plans, nil, logging.NewJSON(io.Discard))
	return h, spots, comments, plans
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestPublishSpot_AssignsStableIdentity(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	mux := h.Routes()

	spot := api.SpotPayload{ID: "s1", Title: "Cliff", Media: []api.MediaPayload{
		{ID: "m1", SpotID: "s1", Type: "photo", StorageKey: "k1"},
		{ID: "m2", SpotID: "s1", Type: "photo", StorageKey: "k2"},
	}}

	rr := postJSON(t, mux, "/v1/spots", spot)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.PublishSpotResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RemoteID)
	require.Len(t, resp.MediaRemoteIDs, 2)

	// a retried publish returns identical identities
	rr = postJSON(t, mux, "/v1/spots", spot)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp2 api.PublishSpotResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp2))
	assert.Equal(t, resp.RemoteID, resp2.RemoteID)
	assert.Equal(t, resp.MediaRemoteIDs, resp2.MediaRemoteIDs)
}

func TestPublishSpot_MissingID(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	rr := postJSON(t, h.Routes(), "/v1/spots", api.SpotPayload{Title: "no id"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var er api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &er))
	assert.Contains(t, er.Error, "missing id")
}

func TestListSpots_SinceCursor(t *testing.T) {
	h, spots, _, _ := newTestHandler(t)
	mux := h.Routes()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return base }
	postJSON(t, mux, "/v1/spots", api.SpotPayload{ID: "s1", Title: "old"})
	h.now = func() time.Time { return base.Add(time.Hour) }
	postJSON(t, mux, "/v1/spots", api.SpotPayload{ID: "s2", Title: "new"})
	require.Len(t, spots.recs, 2)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/spots?since="+base.Add(time.Minute).Format(time.RFC3339), nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var out api.SpotList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out.Spots, 1)
	assert.Equal(t, "s2", out.Spots[0].ID)
	assert.NotEmpty(t, out.Spots[0].RemoteID)
}

func TestListSpots_InvalidCursor(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/spots?since=yesterday", nil)
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListSpots_EmptyStoreReturnsEmptyList(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/spots", nil)
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"spots":[]}`, rr.Body.String())
}

func TestPublishComment_RoundTrip(t *testing.T) {
	h, _, comments, _ := newTestHandler(t)
	mux := h.Routes()

	rr := postJSON(t, mux, "/v1/comments", api.CommentPayload{
		ID: "c1", SpotID: "s1", Body: "nice light", AuthorID: "u1",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.PublishResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RemoteID)
	require.Len(t, comments.recs, 1)

	req := httptest.NewRequest(http.MethodGet, "/v1/comments", nil)
	lrr := httptest.NewRecorder()
	mux.ServeHTTP(lrr, req)

	var out api.CommentList
	require.NoError(t, json.Unmarshal(lrr.Body.Bytes(), &out))
	require.Len(t, out.Comments, 1)
	assert.Equal(t, "nice light", out.Comments[0].Body)
	assert.Equal(t, resp.RemoteID, out.Comments[0].RemoteID)
}

func TestPublishPlan_ItemIdentitiesStable(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	mux := h.Routes()

	plan := api.PlanPayload{ID: "p1", Title: "weekend", Items: []api.PlanItemPayload{
		{ID: "i1", Position: 0, Kind: "place", Place: &api.PlacePayload{Name: "harbor"}},
	}}

	rr := postJSON(t, mux, "/v1/plans", plan)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.PublishPlanResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.ItemRemoteIDs, 1)

	// republish with an added item keeps the first item's identity
	plan.Items = append(plan.Items, api.PlanItemPayload{
		ID: "i2", Position: 1, Kind: "place", Place: &api.PlacePayload{Name: "lookout"},
	})
	rr = postJSON(t, mux, "/v1/plans", plan)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp2 api.PublishPlanResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp2))
	require.Len(t, resp2.ItemRemoteIDs, 2)
	assert.Equal(t, resp.ItemRemoteIDs["i1"], resp2.ItemRemoteIDs["i1"])
}
