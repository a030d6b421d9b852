package models

import "time"

// MediaType distinguishes the payload kind of a media record.
type MediaType string

const (
	MediaTypePhoto MediaType = "photo"
	MediaTypeVideo MediaType = "video"
	MediaTypeLive  MediaType = "live"
)

// MediaVariant selects which rendition of a media payload is meant.
type MediaVariant string

const (
	VariantThumbnail MediaVariant = "thumbnail"
	VariantFull      MediaVariant = "full"
)

// ExifBlock is the optional camera metadata embedded in a media record.
// It is produced by an external extractor and stored as-is.
type ExifBlock struct {
	Make        string
	Model       string
	Lens        string
	FocalLength *float64 // mm
	Aperture    *float64 // f-number
	Shutter     string   // e.g. "1/250"
	ISO         *int
	GPS         *Coordinate
	Width       *int
	Height      *int
	ColorSpace  string
}

// Media is a photo/video belonging to a spot. The binary payload lives in
// the media origin; StorageKey locates it there. The two cached flags track
// which renditions currently exist in the on-disk cache and are owned by
// the cache manager.
type Media struct {
	ID     string
	SpotID string

	Type       MediaType
	StorageKey string

	CaptureTime *time.Time
	Exif        *ExifBlock

	// Applied edits, in application order.
	Presets []string
	Filters []string

	// Cache flags. True only while a backing file exists on disk.
	ThumbnailCached bool
	FullCached      bool

	CreatedAt time.Time
	UpdatedAt time.Time

	SyncState
}

// CachedFlag returns the cache flag for the given variant.
func (m *Media) CachedFlag(v MediaVariant) bool {
	if v == VariantFull {
		return m.FullCached
	}
	return m.ThumbnailCached
}

// SetCachedFlag sets the cache flag for the given variant.
func (m *Media) SetCachedFlag(v MediaVariant, cached bool) {
	if v == VariantFull {
		m.FullCached = cached
		return
	}
	m.ThumbnailCached = cached
}
