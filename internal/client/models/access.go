package models

// AccessInfo describes how to reach a spot: parking, approach route,
// hazards and fees. At most one per spot.
type AccessInfo struct {
	ID     string
	SpotID string

	Parking       *Coordinate
	RoutePolyline *string // encoded polyline from parking to spot

	Hazards []string
	Fees    []string

	Notes string

	// EstimatedMinutes is the walking time from parking, nil when unknown.
	EstimatedMinutes *int
}
