package models

import "time"

// PlanItemKind discriminates the two shapes a plan item can take.
type PlanItemKind string

const (
	// PlanItemSpot references a spot record by id.
	PlanItemSpot PlanItemKind = "spot"
	// PlanItemPlace embeds free-form place data with no backing spot.
	PlanItemPlace PlanItemKind = "place"
)

// TimingPreference expresses when during the day an item is best visited.
type TimingPreference string

const (
	TimingAny        TimingPreference = "any"
	TimingSunrise    TimingPreference = "sunrise"
	TimingSunset     TimingPreference = "sunset"
	TimingGoldenHour TimingPreference = "golden_hour"
)

// PlaceDetails is the embedded payload of a PlanItemPlace item.
type PlaceDetails struct {
	Name     string
	Address  string
	Location *Coordinate
	Category string
	Hours    string
}

// PlanItem is one stop in a plan. Exactly one of SpotID (kind=spot) or
// Place (kind=place) is populated, matching Kind.
type PlanItem struct {
	ID     string
	PlanID string

	// Position orders items within their plan.
	Position int

	Kind   PlanItemKind
	SpotID *string
	Place  *PlaceDetails

	// Optional scheduling.
	Date      *time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Timing    TimingPreference

	CreatedAt time.Time
	UpdatedAt time.Time

	SyncState
}

// Plan is an ordered itinerary of plan items.
type Plan struct {
	ID    string
	Title string

	CreatedAt time.Time
	UpdatedAt time.Time

	SyncState

	// Items ordered by Position.
	Items []*PlanItem
}
