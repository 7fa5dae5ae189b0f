package tracking

import (
	"context"

	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/pkg/mqtt"
)

// LocationRepo caches the last known position of each live driver
type LocationRepo interface {
	StoreSample(ctx context.Context, sample models.PositionSample) error
	GetLastSample(ctx context.Context, driverID string) (*models.PositionSample, error)
	GetNearbyDrivers(ctx context.Context, center models.GeoLocation, radiusKm float64) ([]NearbyDriver, error)
}

// NearbyDriver is a live driver close to a query point
type NearbyDriver struct {
	DriverID   string             `json:"driver_id"`
	Location   models.GeoLocation `json:"location"`
	DistanceKm float64            `json:"distance_km"`
}

// Transport is the broker session the relay publishes and subscribes through
type Transport interface {
	Connect(clientID, username, password string) error
	Disconnect()
	IsConnected() bool
	LastError() error
	Publish(topic string, qos byte, payload []byte) error
	PublishAsync(topic string, qos byte, payload []byte) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}
