package models

import "time"

// Route is a drivable path between two points
type Route struct {
	DistanceMeters float64       `json:"distance_meters"`
	Duration       time.Duration `json:"duration"`
	Points         []GeoLocation `json:"points"`
	// Estimated marks a locally-computed fallback rather than an API result
	Estimated bool `json:"estimated"`
}
