package handler

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/unipool/unipool/internal/pkg/constants"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
	"github.com/unipool/unipool/services/tracking/subscriber"
)

// NATSHandler feeds ride pickup events into the active tracking sessions
type NATSHandler struct {
	manager    *subscriber.Manager
	natsClient *natspkg.Client
	subs       []*nats.Subscription
}

// NewNATSHandler creates a new tracking NATS handler
func NewNATSHandler(manager *subscriber.Manager, client *natspkg.Client) *NATSHandler {
	return &NATSHandler{
		manager:    manager,
		natsClient: client,
		subs:       make([]*nats.Subscription, 0),
	}
}

// InitConsumers subscribes to the subjects the tracking service consumes
func (h *NATSHandler) InitConsumers() error {
	sub, err := h.natsClient.Subscribe(constants.SubjectRidePickup, h.handlePickupEvent)
	if err != nil {
		return err
	}
	h.subs = append(h.subs, sub)
	return nil
}

// handlePickupEvent switches the tracking target of the affected session
func (h *NATSHandler) handlePickupEvent(msg *nats.Msg) {
	var ev models.PickupEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		logger.Error("failed to unmarshal pickup event",
			logger.String("subject", msg.Subject),
			logger.Err(err))
		return
	}

	logger.Info("received pickup event",
		logger.String("ride_id", ev.RideID),
		logger.String("driver_id", ev.DriverID),
		logger.String("status", string(ev.Status)))

	h.manager.HandlePickupEvent(ev)
}

// Close drains the subscriptions
func (h *NATSHandler) Close() {
	for _, sub := range h.subs {
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("failed to unsubscribe", logger.Err(err))
		}
	}
	h.subs = nil
}
