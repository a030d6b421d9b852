package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eranshir/scenic/internal/client/models"
	"github.com/eranshir/scenic/internal/client/remote"
	"github.com/eranshir/scenic/internal/client/store"
	"github.com/eranshir/scenic/internal/common"
	"github.com/eranshir/scenic/internal/logging"
)

// DefaultCacheTTL bounds how long a pulled record is served before it is
// considered stale.
const DefaultCacheTTL = time.Hour

// SyncError describes one record that failed to sync. The record stays in
// its previous state and is retried on the next cycle.
type SyncError struct {
	ID      string
	Type    models.EntityType
	Message string
}

// SyncResult summarizes one push or pull of a single entity type.
type SyncResult struct {
	Type    models.EntityType
	Pushed  int
	Pulled  int
	Skipped bool // pull suppressed by the rate limiter
	Errors  []SyncError
}

// Report aggregates per-type results of a full cycle.
type Report struct {
	Results []SyncResult
}

// Errors flattens every per-record failure in the report.
func (r *Report) Errors() []SyncError {
	var all []SyncError
	for _, res := range r.Results {
		all = append(all, res.Errors...)
	}
	return all
}

// SyncService moves records between the local store and the remote service.
// Push uploads unpublished local drafts; pull materializes remote records
// into the store as TTL-bounded cached copies. Pull never overwrites an
// unpublished local draft, and per-record failures never abort the cycle.
type SyncService struct {
	store   *store.Store
	remote  remote.Client
	tracker *Tracker
	ttl     time.Duration
	log     logging.Logger
	now     func() time.Time
}

// NewSyncService creates the engine. A non-positive ttl falls back to
// DefaultCacheTTL.
func NewSyncService(st *store.Store, rc remote.Client, tr *Tracker, ttl time.Duration, log logging.Logger) *SyncService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &SyncService{
		store:   st,
		remote:  rc,
		tracker: tr,
		ttl:     ttl,
		log:     log.With("component", "sync"),
		now:     time.Now,
	}
}

// Sync runs a full cycle: push all drafts, then pull every type subject to
// the rate limiter.
func (s *SyncService) Sync(ctx context.Context) (*Report, error) {
	report := &Report{}

	push, err := s.Push(ctx)
	if err != nil {
		return nil, err
	}
	report.Results = append(report.Results, push.Results...)

	pull, err := s.Pull(ctx, false)
	if err != nil {
		return nil, err
	}
	report.Results = append(report.Results, pull.Results...)
	return report, nil
}

// Push uploads every unpublished local draft, spots first so that comments
// and plan items never reference a spot the remote has not seen.
func (s *SyncService) Push(ctx context.Context) (*Report, error) {
	report := &Report{}
	for _, push := range []func(context.Context) (SyncResult, error){
		s.PushSpots, s.PushComments, s.PushPlans,
	} {
		res, err := push(ctx)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// PushSpots uploads unpublished spot drafts with their media embedded.
// A successful publish marks the spot and each of its media published in
// one local write; a failed one leaves the draft untouched for the next
// cycle.
func (s *SyncService) PushSpots(ctx context.Context) (SyncResult, error) {
	res := SyncResult{Type: models.EntityTypeSpots}

	drafts, err := s.store.ListDraftSpots(ctx)
	if err != nil {
		return res, fmt.Errorf("list spot drafts: %w", err)
	}
	for _, spot := range drafts {
		resp, err := s.remote.PublishSpot(ctx, remote.SpotToPayload(spot))
		if err != nil {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypeSpots, spot.ID, err))
			continue
		}
		at := s.now().UTC()
		spot.MarkPublished(resp.RemoteID, at, s.ttl)
		for _, m := range spot.Media {
			rid, ok := resp.MediaRemoteIDs[m.ID]
			if !ok {
				rid = m.ID
			}
			m.MarkPublished(rid, at, s.ttl)
		}
		if err := s.store.UpsertSpot(ctx, spot); err != nil {
			return res, fmt.Errorf("persist published spot %s: %w", spot.ID, err)
		}
		res.Pushed++
		s.log.Debug(ctx, "spot published", "id", spot.ID, "remote_id", resp.RemoteID, "media", len(spot.Media))
	}
	return res, nil
}

// PushComments uploads unpublished comment drafts.
func (s *SyncService) PushComments(ctx context.Context) (SyncResult, error) {
	res := SyncResult{Type: models.EntityTypeComments}

	drafts, err := s.store.ListDraftComments(ctx)
	if err != nil {
		return res, fmt.Errorf("list comment drafts: %w", err)
	}
	for _, c := range drafts {
		resp, err := s.remote.PublishComment(ctx, remote.CommentToPayload(c))
		if err != nil {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypeComments, c.ID, err))
			continue
		}
		c.MarkPublished(resp.RemoteID, s.now().UTC(), s.ttl)
		if err := s.store.UpsertComment(ctx, c); err != nil {
			return res, fmt.Errorf("persist published comment %s: %w", c.ID, err)
		}
		res.Pushed++
	}
	return res, nil
}

// PushPlans uploads unpublished plan drafts with their items embedded.
func (s *SyncService) PushPlans(ctx context.Context) (SyncResult, error) {
	res := SyncResult{Type: models.EntityTypePlans}

	drafts, err := s.store.ListDraftPlans(ctx)
	if err != nil {
		return res, fmt.Errorf("list plan drafts: %w", err)
	}
	for _, p := range drafts {
		resp, err := s.remote.PublishPlan(ctx, remote.PlanToPayload(p))
		if err != nil {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypePlans, p.ID, err))
			continue
		}
		at := s.now().UTC()
		p.MarkPublished(resp.RemoteID, at, s.ttl)
		for _, item := range p.Items {
			rid, ok := resp.ItemRemoteIDs[item.ID]
			if !ok {
				rid = item.ID
			}
			item.MarkPublished(rid, at, s.ttl)
		}
		if err := s.store.UpsertPlan(ctx, p); err != nil {
			return res, fmt.Errorf("persist published plan %s: %w", p.ID, err)
		}
		res.Pushed++
	}
	return res, nil
}

// Pull refreshes every entity type from the remote. Each type is gated by
// the tracker unless force is set.
func (s *SyncService) Pull(ctx context.Context, force bool) (*Report, error) {
	report := &Report{}
	for _, pull := range []func(context.Context, bool) (SyncResult, error){
		s.PullSpots, s.PullComments, s.PullPlans,
	} {
		res, err := pull(ctx, force)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// PullSpots fetches spots modified since the last pull and upserts them as
// remote-origin cached copies, media embedded. Unpublished local drafts
// with the same id are never overwritten, and cache flags on already-known
// media survive the refresh. Media shares the spot cursor because it only
// travels embedded in its spot.
//
// Spots whose cache expiry has passed are refreshed even inside the rate
// limit fence. An expired copy is unchanged on the remote, so it hides
// behind the cursor; the refresh drops the cursor and re-lists everything.
func (s *SyncService) PullSpots(ctx context.Context, force bool) (SyncResult, error) {
	res := SyncResult{Type: models.EntityTypeSpots}

	since, skip, err := s.pullCursor(ctx, models.EntityTypeSpots, force)
	if err != nil {
		return res, err
	}
	now := s.now().UTC()
	stale, err := s.store.ListStaleSpots(ctx, now)
	if err != nil {
		return res, fmt.Errorf("list stale spots: %w", err)
	}
	if skip && len(stale) == 0 {
		res.Skipped = true
		return res, nil
	}
	if len(stale) > 0 {
		s.log.Debug(ctx, "expired spots force a full refresh", "count", len(stale))
		since = nil
	}

	payloads, err := s.remote.ListSpots(ctx, since)
	if err != nil {
		return res, fmt.Errorf("list remote spots: %w", err)
	}
	for i := range payloads {
		spot := remote.SpotFromPayload(&payloads[i])

		local, err := s.store.GetSpot(ctx, spot.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypeSpots, spot.ID, err))
			continue
		}
		if local != nil && local.IsUnpublishedDraft() {
			s.log.Debug(ctx, "pull skipped local draft", "type", "spots", "id", spot.ID)
			continue
		}

		spot.SyncState = models.NewRemoteSyncState(remoteIDOr(payloads[i].RemoteID, spot.ID), now, s.ttl)
		for j, m := range spot.Media {
			m.SyncState = models.NewRemoteSyncState(remoteIDOr(payloads[i].Media[j].RemoteID, m.ID), now, s.ttl)
		}
		if local != nil {
			carryCacheFlags(spot.Media, local.Media)
		}
		if err := s.store.UpsertSpot(ctx, spot); err != nil {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypeSpots, spot.ID, err))
			continue
		}
		res.Pulled++
	}

	if err := s.tracker.RecordSync(ctx, models.EntityTypeSpots); err != nil {
		return res, err
	}
	if err := s.tracker.RecordSync(ctx, models.EntityTypeMedia); err != nil {
		return res, err
	}
	s.log.Info(ctx, "pull finished", "type", "spots", "pulled", res.Pulled, "errors", len(res.Errors))
	return res, nil
}

// PullComments fetches comments modified since the last pull.
func (s *SyncService) PullComments(ctx context.Context, force bool) (SyncResult, error) {
	res := SyncResult{Type: models.EntityTypeComments}

	since, skip, err := s.pullCursor(ctx, models.EntityTypeComments, force)
	if err != nil {
		return res, err
	}
	if skip {
		res.Skipped = true
		return res, nil
	}

	payloads, err := s.remote.ListComments(ctx, since)
	if err != nil {
		return res, fmt.Errorf("list remote comments: %w", err)
	}
	now := s.now().UTC()
	for i := range payloads {
		c := remote.CommentFromPayload(&payloads[i])

		local, err := s.store.GetComment(ctx, c.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypeComments, c.ID, err))
			continue
		}
		if local != nil && local.IsUnpublishedDraft() {
			continue
		}

		c.SyncState = models.NewRemoteSyncState(remoteIDOr(payloads[i].RemoteID, c.ID), now, s.ttl)
		if err := s.store.UpsertComment(ctx, c); err != nil {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypeComments, c.ID, err))
			continue
		}
		res.Pulled++
	}

	if err := s.tracker.RecordSync(ctx, models.EntityTypeComments); err != nil {
		return res, err
	}
	s.log.Info(ctx, "pull finished", "type", "comments", "pulled", res.Pulled, "errors", len(res.Errors))
	return res, nil
}

// PullPlans fetches plans modified since the last pull, items embedded.
func (s *SyncService) PullPlans(ctx context.Context, force bool) (SyncResult, error) {
	res := SyncResult{Type: models.EntityTypePlans}

	since, skip, err := s.pullCursor(ctx, models.EntityTypePlans, force)
	if err != nil {
		return res, err
	}
	if skip {
		res.Skipped = true
		return res, nil
	}

	payloads, err := s.remote.ListPlans(ctx, since)
	if err != nil {
		return res, fmt.Errorf("list remote plans: %w", err)
	}
	now := s.now().UTC()
	for i := range payloads {
		p := remote.PlanFromPayload(&payloads[i])

		local, err := s.store.GetPlan(ctx, p.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypePlans, p.ID, err))
			continue
		}
		if local != nil && local.IsUnpublishedDraft() {
			continue
		}

		p.SyncState = models.NewRemoteSyncState(remoteIDOr(payloads[i].RemoteID, p.ID), now, s.ttl)
		for j, item := range p.Items {
			item.SyncState = models.NewRemoteSyncState(remoteIDOr(payloads[i].Items[j].RemoteID, item.ID), now, s.ttl)
		}
		if err := s.store.UpsertPlan(ctx, p); err != nil {
			res.Errors = append(res.Errors, s.recordError(ctx, models.EntityTypePlans, p.ID, err))
			continue
		}
		res.Pulled++
	}

	if err := s.tracker.RecordSync(ctx, models.EntityTypePlans); err != nil {
		return res, err
	}
	s.log.Info(ctx, "pull finished", "type", "plans", "pulled", res.Pulled, "errors", len(res.Errors))
	return res, nil
}

// pullCursor resolves the since cursor for a type and whether the pull is
// suppressed by the rate limiter.
func (s *SyncService) pullCursor(ctx context.Context, et models.EntityType, force bool) (*time.Time, bool, error) {
	if !force {
		due, err := s.tracker.ShouldSync(ctx, et)
		if err != nil {
			return nil, false, err
		}
		if !due {
			s.log.Debug(ctx, "pull rate-limited", "type", string(et))
			return nil, true, nil
		}
	}
	since, err := s.tracker.LastSync(ctx, et)
	if err != nil {
		return nil, false, err
	}
	return since, false, nil
}

func (s *SyncService) recordError(ctx context.Context, et models.EntityType, id string, err error) SyncError {
	s.log.Warn(ctx, "record sync failed", "type", string(et), "id", id, "error", err)
	return SyncError{ID: id, Type: et, Message: err.Error()}
}

// remoteIDOr returns the server-assigned identity when present, falling
// back to the client id for servers that echo nothing.
func remoteIDOr(remoteID, id string) string {
	if remoteID != "" {
		return remoteID
	}
	return id
}

// carryCacheFlags copies the on-disk cache flags from already-known media
// onto their freshly pulled counterparts so a pull never lies about what is
// cached.
func carryCacheFlags(pulled, existing []*models.Media) {
	byID := make(map[string]*models.Media, len(existing))
	for _, m := range existing {
		byID[m.ID] = m
	}
	for _, m := range pulled {
		if prev, ok := byID[m.ID]; ok {
			m.ThumbnailCached = prev.ThumbnailCached
			m.FullCached = prev.FullCached
		}
	}
}
