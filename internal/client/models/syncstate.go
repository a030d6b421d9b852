// Package models defines client-side data models used by the Scenic engine.
package models

import "time"

// EntityType names an independently synchronizable record kind. The sync
// tracker keys its per-type pull timestamps by these values.
type EntityType string

const (
	EntityTypeSpots    EntityType = "spots"
	EntityTypeMedia    EntityType = "media"
	EntityTypePlans    EntityType = "plans"
	EntityTypeComments EntityType = "comments"
)

// SyncState carries the synchronization metadata embedded in every
// independently synchronizable record.
type SyncState struct {
	// IsLocalOnly is true while the record is known only to this device.
	IsLocalOnly bool

	// IsPublished becomes true once a push has succeeded and the remote
	// assigned an identity.
	IsPublished bool

	// RemoteID is the server-assigned identifier, set only after a
	// successful push.
	RemoteID *string

	// LastSynced is the last time this record was confirmed consistent
	// with the remote copy.
	LastSynced *time.Time

	// CacheExpiry governs when the locally held copy becomes stale. It is
	// set exactly when the record is no longer local-only; local drafts
	// never carry it.
	CacheExpiry *time.Time
}

// NewLocalSyncState returns the state of a freshly authored record:
// local-only, unpublished, with no remote identity.
func NewLocalSyncState() SyncState {
	return SyncState{IsLocalOnly: true}
}

// NewRemoteSyncState returns the state of a record materialized from a pull:
// remote-origin with a TTL-bounded cache expiry.
func NewRemoteSyncState(remoteID string, now time.Time, ttl time.Duration) SyncState {
	expiry := now.Add(ttl)
	synced := now
	return SyncState{
		IsPublished: true,
		RemoteID:    &remoteID,
		LastSynced:  &synced,
		CacheExpiry: &expiry,
	}
}

// IsUnpublishedDraft reports whether the record is a local draft that pull
// must never overwrite.
func (s SyncState) IsUnpublishedDraft() bool {
	return s.IsLocalOnly && !s.IsPublished
}

// IsStale reports whether a remote-origin record has passed its cache expiry.
// Local-only records are never stale.
func (s SyncState) IsStale(now time.Time) bool {
	return s.CacheExpiry != nil && now.After(*s.CacheExpiry)
}

// MarkPublished records a successful push: the remote identity is adopted,
// the record stops being local-only and its cached copy gets the same
// TTL-bounded expiry as a pulled record.
func (s *SyncState) MarkPublished(remoteID string, at time.Time, ttl time.Duration) {
	s.IsLocalOnly = false
	s.IsPublished = true
	s.RemoteID = &remoteID
	t := at
	s.LastSynced = &t
	expiry := at.Add(ttl)
	s.CacheExpiry = &expiry
}
