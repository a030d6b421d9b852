// Package httpapi exposes the publish and list endpoints of the Scenic
// server as a JSON HTTP API.
//
// Routes:
//
//	POST /v1/spots             publish a spot (idempotent by client id)
//	GET  /v1/spots?since=...   list spots modified after the RFC3339 cursor
//	POST /v1/comments          publish a comment
//	GET  /v1/comments?since=...
//	POST /v1/plans             publish a plan
//	GET  /v1/plans?since=...
//	POST /v1/media/upload-url  presigned PUT URL for a media payload
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/eranshir/scenic/internal/api"
	"github.com/eranshir/scenic/internal/common"
	"github.com/eranshir/scenic/internal/logging"
	"github.com/eranshir/scenic/internal/server/models"
	"github.com/eranshir/scenic/internal/server/repositories/records"
	"github.com/eranshir/scenic/internal/server/services"
)

// Handler serves the sync API over the record repositories.
type Handler struct {
	spots    records.Repository
	comments records.Repository
	plans    records.Repository
	presign  *services.PresignService
	log      logging.Logger
	now      func() time.Time
}

// NewHandler builds the handler.
func NewHandler(spots, comments, plans records.Repository, presign *services.PresignService, log logging.Logger) *Handler {
	return &Handler{
		spots:    spots,
		comments: comments,
		plans:    plans,
		presign:  presign,
		log:      log.With("component", "httpapi"),
		now:      time.Now,
	}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/spots", h.publishSpot)
	mux.HandleFunc("GET /v1/spots", h.listSpots)
	mux.HandleFunc("POST /v1/comments", h.publishComment)
	mux.HandleFunc("GET /v1/comments", h.listComments)
	mux.HandleFunc("POST /v1/plans", h.publishPlan)
	mux.HandleFunc("GET /v1/plans", h.listPlans)
	mux.HandleFunc("POST /v1/media/upload-url", h.mediaUploadURL)
	return mux
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}

// sinceCursor parses the optional ?since= query parameter.
func sinceCursor(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return nil, nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.New("invalid since cursor, want RFC3339")
	}
	return &at, nil
}

func (h *Handler) publishSpot(w http.ResponseWriter, r *http.Request) {
	var payload api.SpotPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if payload.ID == "" {
		h.writeError(w, r, http.StatusBadRequest, errors.New("missing id"))
		return
	}

	// preserve media identities assigned on an earlier publish
	existingMedia := map[string]string{}
	if existing, err := h.spots.Get(r.Context(), payload.ID); err == nil {
		var prev api.SpotPayload
		if err := json.Unmarshal(existing.Doc, &prev); err == nil {
			for _, m := range prev.Media {
				existingMedia[m.ID] = m.RemoteID
			}
		}
	} else if !errors.Is(err, common.ErrNotFound) {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	mediaRemoteIDs := map[string]string{}
	for i := range payload.Media {
		rid, ok := existingMedia[payload.Media[i].ID]
		if !ok || rid == "" {
			rid = uuid.NewString()
		}
		payload.Media[i].RemoteID = rid
		mediaRemoteIDs[payload.Media[i].ID] = rid
	}

	remoteID, err := h.upsertDoc(r, h.spots, payload.ID, &payload.RemoteID, &payload)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.PublishSpotResponse{
		RemoteID:       remoteID,
		MediaRemoteIDs: mediaRemoteIDs,
	})
}

func (h *Handler) publishComment(w http.ResponseWriter, r *http.Request) {
	var payload api.CommentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if payload.ID == "" {
		h.writeError(w, r, http.StatusBadRequest, errors.New("missing id"))
		return
	}

	remoteID, err := h.upsertDoc(r, h.comments, payload.ID, &payload.RemoteID, &payload)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.PublishResponse{RemoteID: remoteID})
}

func (h *Handler) publishPlan(w http.ResponseWriter, r *http.Request) {
	var payload api.PlanPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if payload.ID == "" {
		h.writeError(w, r, http.StatusBadRequest, errors.New("missing id"))
		return
	}

	existingItems := map[string]string{}
	if existing, err := h.plans.Get(r.Context(), payload.ID); err == nil {
		var prev api.PlanPayload
		if err := json.Unmarshal(existing.Doc, &prev); err == nil {
			for _, item := range prev.Items {
				existingItems[item.ID] = item.RemoteID
			}
		}
	} else if !errors.Is(err, common.ErrNotFound) {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	itemRemoteIDs := map[string]string{}
	for i := range payload.Items {
		rid, ok := existingItems[payload.Items[i].ID]
		if !ok || rid == "" {
			rid = uuid.NewString()
		}
		payload.Items[i].RemoteID = rid
		itemRemoteIDs[payload.Items[i].ID] = rid
	}

	remoteID, err := h.upsertDoc(r, h.plans, payload.ID, &payload.RemoteID, &payload)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.PublishPlanResponse{
		RemoteID:      remoteID,
		ItemRemoteIDs: itemRemoteIDs,
	})
}

// upsertDoc stores the document under a stable remote identity: a known
// record keeps the identity assigned on its first publish, a new one gets
// a fresh uuid. remoteID points at the payload's RemoteID field so the
// stored doc carries the final identity.
func (h *Handler) upsertDoc(r *http.Request, repo records.Repository, id string, remoteID *string, payload any) (string, error) {
	existing, err := repo.Get(r.Context(), id)
	switch {
	case err == nil:
		*remoteID = existing.RemoteID
	case errors.Is(err, common.ErrNotFound):
		if *remoteID == "" {
			*remoteID = uuid.NewString()
		}
	default:
		return "", err
	}

	doc, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return repo.Upsert(r.Context(), &models.Record{
		ID:        id,
		RemoteID:  *remoteID,
		UpdatedAt: h.now().UTC(),
		Doc:       doc,
	})
}

func (h *Handler) listSpots(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.listDocs(w, r, h.spots)
	if !ok {
		return
	}
	out := api.SpotList{Spots: []api.SpotPayload{}}
	for _, rec := range recs {
		var p api.SpotPayload
		if err := json.Unmarshal(rec.Doc, &p); err != nil {
			h.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		p.RemoteID = rec.RemoteID
		out.Spots = append(out.Spots, p)
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.listDocs(w, r, h.comments)
	if !ok {
		return
	}
	out := api.CommentList{Comments: []api.CommentPayload{}}
	for _, rec := range recs {
		var p api.CommentPayload
		if err := json.Unmarshal(rec.Doc, &p); err != nil {
			h.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		p.RemoteID = rec.RemoteID
		out.Comments = append(out.Comments, p)
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	recs, ok := h.listDocs(w, r, h.plans)
	if !ok {
		return
	}
	out := api.PlanList{Plans: []api.PlanPayload{}}
	for _, rec := range recs {
		var p api.PlanPayload
		if err := json.Unmarshal(rec.Doc, &p); err != nil {
			h.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		p.RemoteID = rec.RemoteID
		out.Plans = append(out.Plans, p)
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listDocs(w http.ResponseWriter, r *http.Request, repo records.Repository) ([]*models.Record, bool) {
	since, err := sinceCursor(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return nil, false
	}
	recs, err := repo.SelectUpdatedSince(r.Context(), since)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return nil, false
	}
	return recs, true
}

func (h *Handler) mediaUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.presign.PresignedPutURL(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.UploadURLResponse{Key: key, URL: url})
}
