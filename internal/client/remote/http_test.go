package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eranshir/scenic/internal/api"
	"github.com/eranshir/scenic/internal/common"
)

func TestHTTPClientPublishSpot(t *testing.T) {
	var gotPath, gotMethod, gotContentType string
	var gotBody api.SpotPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(api.PublishSpotResponse{
			RemoteID:       "r-spot-1",
			MediaRemoteIDs: map[string]string{"m1": "r-m1"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/")
	resp, err := c.PublishSpot(context.Background(), &api.SpotPayload{
		ID:    "spot-1",
		Title: "Ridge viewpoint",
		Media: []api.MediaPayload{{ID: "m1", SpotID: "spot-1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/spots", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "spot-1", gotBody.ID)
	require.Len(t, gotBody.Media, 1)

	assert.Equal(t, "r-spot-1", resp.RemoteID)
	assert.Equal(t, "r-m1", resp.MediaRemoteIDs["m1"])
}

func TestHTTPClientListSpotsSinceCursor(t *testing.T) {
	var gotSince string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/spots", r.URL.Path)
		gotSince = r.URL.Query().Get("since")
		json.NewEncoder(w).Encode(api.SpotList{Spots: []api.SpotPayload{{ID: "spot-1"}}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	since := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	spots, err := c.ListSpots(context.Background(), &since)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-01T12:30:00Z", gotSince)
	require.Len(t, spots, 1)
	assert.Equal(t, "spot-1", spots[0].ID)
}

func TestHTTPClientListNoCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(api.PlanList{Plans: []api.PlanPayload{}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	plans, err := c.ListPlans(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestHTTPClientErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "missing id"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.PublishComment(context.Background(), &api.CommentPayload{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNetwork))
	assert.Contains(t, err.Error(), "missing id")
}

func TestHTTPClientStatusWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.ListComments(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNetwork))
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPClientConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.PublishPlan(context.Background(), &api.PlanPayload{ID: "plan-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNetwork))
}
