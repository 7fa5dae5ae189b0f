package models

import (
	"time"

	"github.com/google/uuid"
)

// RideRequestStatus represents the status of a ride request
type RideRequestStatus string

const (
	RideRequestPending  RideRequestStatus = "pending"
	RideRequestAccepted RideRequestStatus = "accepted"
	RideRequestRejected RideRequestStatus = "rejected"
	RideRequestExpired  RideRequestStatus = "expired"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingPickedUp   BookingStatus = "picked_up"
	BookingDroppedOff BookingStatus = "dropped_off"
	BookingCancelled  BookingStatus = "cancelled"
)

// RideRequest is a passenger's request to join a driver's ride
type RideRequest struct {
	RequestID   uuid.UUID         `json:"request_id" db:"request_id"`
	RideID      uuid.UUID         `json:"ride_id" db:"ride_id"`
	PassengerID uuid.UUID         `json:"passenger_id" db:"passenger_id"`
	Pickup      GeoLocation       `json:"pickup" db:"-"`
	Dropoff     GeoLocation       `json:"dropoff" db:"-"`
	Seats       int               `json:"seats" db:"seats"`
	Status      RideRequestStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// RideRequestDTO flattens the nested locations for database operations
type RideRequestDTO struct {
	RequestID  uuid.UUID         `db:"request_id"`
	RideID     uuid.UUID         `db:"ride_id"`
	PassengerID uuid.UUID        `db:"passenger_id"`
	PickupLat  float64           `db:"pickup_lat"`
	PickupLng  float64           `db:"pickup_lng"`
	DropoffLat float64           `db:"dropoff_lat"`
	DropoffLng float64           `db:"dropoff_lng"`
	Seats      int               `db:"seats"`
	Status     RideRequestStatus `db:"status"`
	CreatedAt  time.Time         `db:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at"`
}

// ToDTO converts a RideRequest to its database representation
func (r *RideRequest) ToDTO() *RideRequestDTO {
	return &RideRequestDTO{
		RequestID:   r.RequestID,
		RideID:      r.RideID,
		PassengerID: r.PassengerID,
		PickupLat:   r.Pickup.Latitude,
		PickupLng:   r.Pickup.Longitude,
		DropoffLat:  r.Dropoff.Latitude,
		DropoffLng:  r.Dropoff.Longitude,
		Seats:       r.Seats,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToRequest converts a database row back to a RideRequest
func (dto *RideRequestDTO) ToRequest() *RideRequest {
	return &RideRequest{
		RequestID:   dto.RequestID,
		RideID:      dto.RideID,
		PassengerID: dto.PassengerID,
		Pickup:      GeoLocation{Latitude: dto.PickupLat, Longitude: dto.PickupLng},
		Dropoff:     GeoLocation{Latitude: dto.DropoffLat, Longitude: dto.DropoffLng},
		Seats:       dto.Seats,
		Status:      dto.Status,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
}

// Booking is a confirmed seat on a ride, created when a request is accepted
type Booking struct {
	BookingID   uuid.UUID     `json:"booking_id" db:"booking_id"`
	RideID      uuid.UUID     `json:"ride_id" db:"ride_id"`
	RequestID   uuid.UUID     `json:"request_id" db:"request_id"`
	PassengerID uuid.UUID     `json:"passenger_id" db:"passenger_id"`
	DriverID    uuid.UUID     `json:"driver_id" db:"driver_id"`
	Fare        float64       `json:"fare" db:"fare"`
	Status      BookingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// FareBreakdown is the result of a fare computation
type FareBreakdown struct {
	DistanceKm   float64 `json:"distance_km"`
	BaseFare     float64 `json:"base_fare"`
	DistanceFare float64 `json:"distance_fare"`
	Total        float64 `json:"total"`
	PerPassenger float64 `json:"per_passenger"`
	Currency     string  `json:"currency"`
}

// DriverProfile carries the fields auto-verification inspects
type DriverProfile struct {
	DriverID      uuid.UUID `json:"driver_id" db:"driver_id"`
	Email         string    `json:"email" db:"email"`
	PlateNumber   string    `json:"plate_number" db:"plate_number"`
	LicenceNumber string    `json:"licence_number" db:"licence_number"`
	Verified      bool      `json:"verified" db:"verified"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty" db:"verified_at"`
}
