// Package api defines the JSON wire contract between the client engine and
// the backing service: per-type publish calls that return server-assigned
// identifiers, and list calls keyed by a "modified since" cursor.
//
// Identifiers on the wire are the client-generated record ids; the server
// assigns a separate remote id on publish. List responses carry both so the
// client can upsert by id.
package api

import "time"

// ExifPayload mirrors the optional EXIF block on a media record.
type ExifPayload struct {
	Make        string   `json:"make,omitempty"`
	Model       string   `json:"model,omitempty"`
	Lens        string   `json:"lens,omitempty"`
	FocalLength *float64 `json:"focal_length,omitempty"`
	Aperture    *float64 `json:"aperture,omitempty"`
	Shutter     string   `json:"shutter,omitempty"`
	ISO         *int     `json:"iso,omitempty"`
	GPSLat      *float64 `json:"gps_lat,omitempty"`
	GPSLon      *float64 `json:"gps_lon,omitempty"`
	Width       *int     `json:"width,omitempty"`
	Height      *int     `json:"height,omitempty"`
	ColorSpace  string   `json:"color_space,omitempty"`
}

// MediaPayload is a media record on the wire. Media always travels embedded
// in its owning spot.
type MediaPayload struct {
	ID          string       `json:"id"`
	RemoteID    string       `json:"remote_id,omitempty"`
	SpotID      string       `json:"spot_id"`
	Type        string       `json:"type"`
	StorageKey  string       `json:"storage_key"`
	CaptureTime *time.Time   `json:"capture_time,omitempty"`
	Exif        *ExifPayload `json:"exif,omitempty"`
	Presets     []string     `json:"presets,omitempty"`
	Filters     []string     `json:"filters,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SpotPayload is a spot record, with owned media embedded.
type SpotPayload struct {
	ID         string         `json:"id"`
	RemoteID   string         `json:"remote_id,omitempty"`
	Title      string         `json:"title"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Heading    *float64       `json:"heading,omitempty"`
	Elevation  *float64       `json:"elevation,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Difficulty int            `json:"difficulty"`
	Privacy    string         `json:"privacy"`
	License    string         `json:"license,omitempty"`
	Status     string         `json:"status"`
	CreatorID  string         `json:"creator_id"`
	VoteCount  int            `json:"vote_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Media      []MediaPayload `json:"media,omitempty"`
}

// CommentPayload is a comment record on the wire.
type CommentPayload struct {
	ID        string    `json:"id"`
	RemoteID  string    `json:"remote_id,omitempty"`
	SpotID    string    `json:"spot_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"author_id"`
	VoteCount int       `json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlacePayload is the embedded place of a plan item with no backing spot.
type PlacePayload struct {
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Category string   `json:"category,omitempty"`
	Hours    string   `json:"hours,omitempty"`
}

// PlanItemPayload is one plan stop on the wire.
type PlanItemPayload struct {
	ID        string        `json:"id"`
	RemoteID  string        `json:"remote_id,omitempty"`
	Position  int           `json:"position"`
	Kind      string        `json:"kind"`
	SpotID    *string       `json:"spot_id,omitempty"`
	Place     *PlacePayload `json:"place,omitempty"`
	Date      *time.Time    `json:"date,omitempty"`
	StartTime *time.Time    `json:"start_time,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Timing    string        `json:"timing,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// PlanPayload is a plan record with its ordered items embedded.
type PlanPayload struct {
	ID        string            `json:"id"`
	RemoteID  string            `json:"remote_id,omitempty"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Items     []PlanItemPayload `json:"items,omitempty"`
}

// PublishSpotResponse acknowledges a spot publish. MediaRemoteIDs maps each
// embedded media record's id to its server-assigned identity.
type PublishSpotResponse struct {
	RemoteID       string            `json:"remote_id"`
	MediaRemoteIDs map[string]string `json:"media_remote_ids,omitempty"`
}

// PublishPlanResponse acknowledges a plan publish.
type PublishPlanResponse struct {
	RemoteID      string            `json:"remote_id"`
	ItemRemoteIDs map[string]string `json:"item_remote_ids,omitempty"`
}

// PublishResponse acknowledges a publish of a record with no children.
type PublishResponse struct {
	RemoteID string `json:"remote_id"`
}

// SpotList is the response of the spot list-since call.
type SpotList struct {
	Spots []SpotPayload `json:"spots"`
}

// CommentList is the response of the comment list-since call.
type CommentList struct {
	Comments []CommentPayload `json:"comments"`
}

// PlanList is the response of the plan list-since call.
type PlanList struct {
	Plans []PlanPayload `json:"plans"`
}

// UploadURLResponse carries a presigned PUT URL for a media payload.
type UploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ErrorResponse is the body returned on a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}
