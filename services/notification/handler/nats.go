package handler

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/unipool/unipool/internal/pkg/constants"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
	"github.com/unipool/unipool/services/notification"
)

// NATSHandler turns ride lifecycle events into pending notifications
type NATSHandler struct {
	notificationUC notification.NotificationUC
	natsClient     *natspkg.Client
	subs           []*nats.Subscription
}

// NewNATSHandler creates a new notification NATS handler
func NewNATSHandler(uc notification.NotificationUC, client *natspkg.Client) *NATSHandler {
	return &NATSHandler{
		notificationUC: uc,
		natsClient:     client,
		subs:           make([]*nats.Subscription, 0),
	}
}

// InitConsumers subscribes to the ride events that produce notifications
func (h *NATSHandler) InitConsumers() error {
	subjects := map[string]nats.MsgHandler{
		constants.SubjectRideRequested: h.handleRideRequested,
		constants.SubjectRideAccepted:  h.handleRideAccepted,
		constants.SubjectRideRejected:  h.handleRideRejected,
	}

	for subject, handler := range subjects {
		sub, err := h.natsClient.Subscribe(subject, handler)
		if err != nil {
			return err
		}
		h.subs = append(h.subs, sub)
	}
	return nil
}

func (h *NATSHandler) handleRideRequested(msg *nats.Msg) {
	var req models.RideRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		logger.Error("failed to unmarshal ride requested event", logger.Err(err))
		return
	}

	h.queue(&models.Notification{
		Title:      "Ride request sent",
		Body:       "Waiting for the driver to respond",
		Type:       models.NotificationRideRequested,
		Recipients: []string{req.PassengerID.String()},
	})
}

func (h *NATSHandler) handleRideAccepted(msg *nats.Msg) {
	var booking models.Booking
	if err := json.Unmarshal(msg.Data, &booking); err != nil {
		logger.Error("failed to unmarshal ride accepted event", logger.Err(err))
		return
	}

	h.queue(&models.Notification{
		Title:      "Ride request accepted",
		Body:       "Your driver confirmed your seat",
		Type:       models.NotificationRideAccepted,
		Recipients: []string{booking.PassengerID.String()},
	})
}

func (h *NATSHandler) handleRideRejected(msg *nats.Msg) {
	var req models.RideRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		logger.Error("failed to unmarshal ride rejected event", logger.Err(err))
		return
	}

	h.queue(&models.Notification{
		Title:      "Ride request rejected",
		Body:       "The driver could not take your request",
		Type:       models.NotificationRideRejected,
		Recipients: []string{req.PassengerID.String()},
	})
}

func (h *NATSHandler) queue(n *models.Notification) {
	if err := h.notificationUC.Queue(context.Background(), n); err != nil {
		logger.Error("failed to queue notification",
			logger.String("type", string(n.Type)),
			logger.Err(err))
	}
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
