package models

import "time"

// Difficulty grades the approach to a spot.
type Difficulty int

const (
	DifficultyUnknown Difficulty = iota
	DifficultyEasy
	DifficultyModerate
	DifficultyHard
	DifficultyExtreme
)

// Privacy controls who can see a published spot.
type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyUnlisted Privacy = "unlisted"
	PrivacyPrivate  Privacy = "private"
)

// SpotStatus is the lifecycle status of a spot record.
type SpotStatus string

const (
	SpotStatusActive   SpotStatus = "active"
	SpotStatusArchived SpotStatus = "archived"
	SpotStatusFlagged  SpotStatus = "flagged"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Spot is a photographic location authored by a user. It owns its media,
// at most one sun and one weather snapshot, at most one access info block,
// and its comment thread.
type Spot struct {
	ID    string
	Title string

	Location  Coordinate
	Heading   *float64 // degrees from true north, nil when unknown
	Elevation *float64 // meters, nil when unknown

	Tags       []string
	Difficulty Difficulty
	Privacy    Privacy
	License    string
	Status     SpotStatus

	CreatorID string
	VoteCount int

	CreatedAt time.Time
	UpdatedAt time.Time

	SyncState

	// Owned children. Loaded by the store; attached by identity, never by
	// positional append.
	Media    []*Media
	Sun      *SunSnapshot
	Weather  *WeatherSnapshot
	Access   *AccessInfo
	Comments []*Comment
}

// Touch bumps the modification timestamp after a user edit.
func (s *Spot) Touch(now time.Time) {
	s.UpdatedAt = now
}
