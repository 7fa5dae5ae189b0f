package rides

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/unipool/unipool/internal/pkg/models"
)

var (
	// ErrRequestNotFound is returned for lookups of unknown ride requests
	ErrRequestNotFound = errors.New("rides: ride request not found")
	// ErrBookingNotFound is returned for lookups of unknown bookings
	ErrBookingNotFound = errors.New("rides: booking not found")
	// ErrDriverNotFound is returned for lookups of unknown driver profiles
	ErrDriverNotFound = errors.New("rides: driver profile not found")
)

// RideRepo defines the interface for ride persistence
type RideRepo interface {
	CreateRideRequest(ctx context.Context, req *models.RideRequest) error
	GetRideRequest(ctx context.Context, requestID uuid.UUID) (*models.RideRequest, error)
	// UpdateRequestStatus transitions a request out of `from`; it reports
	// ErrRequestNotFound when the request is missing or not in `from`
	UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, from, to models.RideRequestStatus) error
	ListRequestsSince(ctx context.Context, rideID uuid.UUID, since time.Time) ([]*models.RideRequest, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) error

	GetDriverProfile(ctx context.Context, driverID uuid.UUID) (*models.DriverProfile, error)
	// UpsertDriverProfile inserts or refreshes the verification fields;
	// updating resets the verified flag so changed details are re-checked
	UpsertDriverProfile(ctx context.Context, profile *models.DriverProfile) error
	MarkDriverVerified(ctx context.Context, driverID uuid.UUID, verifiedAt time.Time) error
}
