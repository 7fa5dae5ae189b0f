package rides

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/unipool/unipool/internal/pkg/models"
)

// RideUC defines the interface for ride business logic
type RideUC interface {
	RequestRide(ctx context.Context, req *models.RideRequest) (*models.RideRequest, error)
	ListRideRequests(ctx context.Context, rideID uuid.UUID, since time.Time) ([]*models.RideRequest, error)
	AcceptRideRequest(ctx context.Context, requestID, driverID uuid.UUID) (*models.Booking, error)
	RejectRideRequest(ctx context.Context, requestID uuid.UUID) (*models.RideRequest, error)
	CalculateFare(distanceKm float64, passengers int) (*models.FareBreakdown, error)
	RegisterDriver(ctx context.Context, profile *models.DriverProfile) (*models.DriverProfile, error)
	AutoVerifyDriver(ctx context.Context, driverID uuid.UUID) (*models.DriverProfile, error)
	UpdatePickupStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) (*models.Booking, error)
}
