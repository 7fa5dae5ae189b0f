package rides

import (
	"context"

	"github.com/unipool/unipool/internal/pkg/models"
)

// RideGW defines the interface for ride event publishing
type RideGW interface {
	PublishRideRequested(ctx context.Context, req *models.RideRequest) error
	PublishRideAccepted(ctx context.Context, booking *models.Booking) error
	PublishRideRejected(ctx context.Context, req *models.RideRequest) error
	PublishPickupEvent(ctx context.Context, ev *models.PickupEvent) error
	PublishRideCompleted(ctx context.Context, booking *models.Booking) error
}
