package models

import "time"

// SunSnapshot holds solar timing data for a spot on a given date. It is
// computed by an external provider and consumed as an opaque value; its
// lifecycle follows the owning spot.
type SunSnapshot struct {
	ID     string
	SpotID string

	Date time.Time

	SunriseAt       *time.Time
	SunsetAt        *time.Time
	GoldenHourStart *time.Time
	GoldenHourEnd   *time.Time
	BlueHourStart   *time.Time
	BlueHourEnd     *time.Time

	// Azimuths in degrees at sunrise/sunset, nil when not computed.
	SunriseAzimuth *float64
	SunsetAzimuth  *float64
}

// WeatherSnapshot holds fetched weather data for a spot at a point in time.
// Like SunSnapshot it carries no sync state of its own.
type WeatherSnapshot struct {
	ID     string
	SpotID string

	FetchedAt time.Time

	TemperatureC *float64
	CloudCover   *int // percent
	Visibility   *float64
	WindSpeed    *float64
	Conditions   string
}
