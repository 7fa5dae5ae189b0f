package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/unipool/unipool/internal/pkg/constants"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/utils"
	"github.com/unipool/unipool/services/tracking"
)

// Publisher relays a driver's position samples to the broker. Delivery is
// fire-and-forget at QoS 1: a lost sample is superseded by the next one, so
// no retry queue is kept and the sampler is never blocked.
type Publisher struct {
	transport tracking.Transport
	cfg       models.MQTTConfig
	driverID  string
	topic     string
}

// New creates a publisher for one driver's location channel
func New(transport tracking.Transport, cfg models.MQTTConfig, driverID string) *Publisher {
	return &Publisher{
		transport: transport,
		cfg:       cfg,
		driverID:  driverID,
		topic:     constants.DriverLocationTopic(cfg.Namespace, driverID),
	}
}

// Publish serializes one sample onto the driver's topic. The transport is
// connected first if needed, with publisher-scoped credentials. The first
// sample on a fresh session waits for the broker ack, so credential and ACL
// rejections surface on this call; later samples go out asynchronously.
// Returns false when the sample could not be handed to the transport.
func (p *Publisher) Publish(sample models.PositionSample) bool {
	fresh := false
	if !p.transport.IsConnected() {
		clientID := "unipool-driver-" + p.driverID
		if err := p.transport.Connect(clientID, p.cfg.PublisherUser, p.cfg.PublisherPassword); err != nil {
			logger.Warn("publisher connect failed",
				logger.String("driver_id", p.driverID),
				logger.Err(err))
			return false
		}
		fresh = true
	}

	payload, err := json.Marshal(p.buildPayload(sample))
	if err != nil {
		logger.Error("failed to marshal position sample", logger.Err(err))
		return false
	}

	if fresh {
		if err := p.transport.Publish(p.topic, constants.QoSAtLeastOnce, payload); err != nil {
			logger.Warn("publish on fresh session failed, sample dropped",
				logger.String("topic", p.topic),
				logger.Err(err))
			return false
		}
		return true
	}

	if err := p.transport.PublishAsync(p.topic, constants.QoSAtLeastOnce, payload); err != nil {
		logger.Warn("publish failed, sample dropped",
			logger.String("topic", p.topic),
			logger.Err(err))
		return false
	}
	return true
}

// Run consumes a sample stream until it closes or ctx is done
func (p *Publisher) Run(ctx context.Context, samples <-chan models.PositionSample) {
	for {
		select {
		case <-ctx.Done():
			return
		case sample, ok := <-samples:
			if !ok {
				return
			}
			p.Publish(sample)
		}
	}
}

// Stop closes the broker session
func (p *Publisher) Stop() {
	p.transport.Disconnect()
}

// buildPayload normalizes a sample into the wire envelope. Speed and bearing
// must be finite non-negative numbers; invalid readings become 0.
func (p *Publisher) buildPayload(sample models.PositionSample) models.PositionSample {
	sample.DriverID = p.driverID
	sample.SpeedMPS = utils.SanitizeReading(sample.SpeedMPS)
	sample.Bearing = utils.SanitizeReading(sample.Bearing)
	if sample.TimestampMS == 0 {
		sample.TimestampMS = time.Now().UnixMilli()
	}
	return sample
}
