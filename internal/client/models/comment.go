package models

import "time"

// Comment is a threaded comment on a spot. ParentID is nil for top-level
// comments and references another comment for replies.
type Comment struct {
	ID     string
	SpotID string

	ParentID *string

	Body      string
	AuthorID  string
	VoteCount int

	CreatedAt time.Time
	UpdatedAt time.Time

	SyncState
}
