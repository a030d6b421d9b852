// Package models defines server-side persistence models.
package models

import "time"

// Record is one synchronizable document: the client-authored payload stored
// as JSON alongside the identity and cursor columns the sync queries need.
//
// ID is the client-generated identifier and the primary key; RemoteID is
// assigned by the server on first publish and never changes afterwards.
// UpdatedAt is the server receive time and drives the "modified since"
// list queries.
type Record struct {
	ID        string
	RemoteID  string
	UpdatedAt time.Time
	Doc       []byte
}
