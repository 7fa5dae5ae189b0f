package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unipool/unipool/internal/pkg/constants"
	"github.com/unipool/unipool/internal/pkg/models"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
	"github.com/unipool/unipool/services/rides"
)

// RideGW handles NATS publishing for ride events
type RideGW struct {
	natsClient *natspkg.Client
}

// NewRideGW creates a new ride gateway
func NewRideGW(client *natspkg.Client) rides.RideGW {
	return &RideGW{
		natsClient: client,
	}
}

// PublishRideRequested publishes a ride requested event
func (g *RideGW) PublishRideRequested(ctx context.Context, req *models.RideRequest) error {
	return g.publish(constants.SubjectRideRequested, req)
}

// PublishRideAccepted publishes a ride accepted event
func (g *RideGW) PublishRideAccepted(ctx context.Context, booking *models.Booking) error {
	return g.publish(constants.SubjectRideAccepted, booking)
}

// PublishRideRejected publishes a ride rejected event
func (g *RideGW) PublishRideRejected(ctx context.Context, req *models.RideRequest) error {
	return g.publish(constants.SubjectRideRejected, req)
}

// PublishPickupEvent publishes a pickup-status event for the tracking service
func (g *RideGW) PublishPickupEvent(ctx context.Context, ev *models.PickupEvent) error {
	return g.publish(constants.SubjectRidePickup, ev)
}

// PublishRideCompleted publishes a ride completed event
func (g *RideGW) PublishRideCompleted(ctx context.Context, booking *models.Booking) error {
	return g.publish(constants.SubjectRideCompleted, booking)
}

func (g *RideGW) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", subject, err)
	}
	return g.natsClient.Publish(subject, data)
}
