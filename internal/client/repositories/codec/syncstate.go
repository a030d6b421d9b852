package codec

import (
	"database/sql"

	"github.com/eranshir/scenic/internal/client/models"
)

// The five sync-state columns appear on every synchronizable table in the
// same order: is_local_only, is_published, remote_id, last_synced,
// cache_expiry. These helpers keep their encoding in one place.

// SyncStateArgs returns bind arguments for the sync-state columns.
func SyncStateArgs(s models.SyncState) []any {
	var remoteID any
	if s.RemoteID != nil {
		remoteID = *s.RemoteID
	}
	return []any{
		boolToInt(s.IsLocalOnly),
		boolToInt(s.IsPublished),
		remoteID,
		EncodeOptionalTime(s.LastSynced),
		EncodeOptionalTime(s.CacheExpiry),
	}
}

// SyncStateScan is a scan target for the sync-state columns.
type SyncStateScan struct {
	IsLocalOnly int64
	IsPublished int64
	RemoteID    sql.NullString
	LastSynced  sql.NullInt64
	CacheExpiry sql.NullInt64
}

// Dest returns scan destinations in column order.
func (s *SyncStateScan) Dest() []any {
	return []any{&s.IsLocalOnly, &s.IsPublished, &s.RemoteID, &s.LastSynced, &s.CacheExpiry}
}

// Decode converts the scanned columns into a SyncState.
func (s *SyncStateScan) Decode() models.SyncState {
	out := models.SyncState{
		IsLocalOnly: s.IsLocalOnly != 0,
		IsPublished: s.IsPublished != 0,
		LastSynced:  DecodeOptionalTime(s.LastSynced),
		CacheExpiry: DecodeOptionalTime(s.CacheExpiry),
	}
	if s.RemoteID.Valid {
		id := s.RemoteID.String
		out.RemoteID = &id
	}
	return out
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
