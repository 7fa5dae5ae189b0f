package models

import "time"

// TargetKind identifies which point a tracking session is heading to
type TargetKind string

const (
	TargetPickup      TargetKind = "pickup"
	TargetNextPickup  TargetKind = "next_pickup"
	TargetDestination TargetKind = "destination"
)

// TrackingTarget is the point the ETA is computed against. A session has
// exactly one active target at a time.
type TrackingTarget struct {
	Kind     TargetKind  `json:"kind"`
	Location GeoLocation `json:"location"`
}

// PickupEvent reports a booking's pickup-status change. The tracking
// subscriber switches its active target when one of these arrives.
type PickupEvent struct {
	RideID    string        `json:"ride_id"`
	BookingID string        `json:"booking_id"`
	DriverID  string        `json:"driver_id"`
	Status    BookingStatus `json:"status"`
	// NextPickup is set when another passenger is still waiting on this ride
	NextPickup  *GeoLocation `json:"next_pickup,omitempty"`
	Destination GeoLocation  `json:"destination"`
	Timestamp   time.Time    `json:"timestamp"`
}

// TrackingState is a snapshot of a tracking session for API consumers
type TrackingState struct {
	DriverID   string         `json:"driver_id"`
	Position   *GeoLocation   `json:"position,omitempty"`
	SpeedMPS   float64        `json:"speed_mps"`
	Target     TrackingTarget `json:"target"`
	ETASeconds *int64         `json:"eta_seconds,omitempty"` // nil when indeterminate
	ETA        string         `json:"eta"`                   // "2m", or "--" when indeterminate
	Route      []GeoLocation  `json:"route,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
