package models

import "time"

// GeoLocation represents a geographic location
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PositionSample is one reading from a driver's positioning source. It is
// immutable once created; the relay publishes it and eventually discards it
// after consumption.
type PositionSample struct {
	DriverID    string  `json:"driver_id"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	TimestampMS int64   `json:"timestamp"`
	SpeedMPS    float64 `json:"speed_mps"`
	Bearing     float64 `json:"bearing"`
}

// Location returns the sample's coordinates
func (s PositionSample) Location() GeoLocation {
	return GeoLocation{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Time returns the sample timestamp as a time.Time
func (s PositionSample) Time() time.Time {
	return time.UnixMilli(s.TimestampMS)
}
