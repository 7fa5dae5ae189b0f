package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/middleware"
	"github.com/unipool/unipool/internal/pkg/models"
	natspkg "github.com/unipool/unipool/internal/pkg/nats"
	"github.com/unipool/unipool/services/tracking"
	httpHandler "github.com/unipool/unipool/services/tracking/handler/http"
	"github.com/unipool/unipool/services/tracking/subscriber"
)

// Handler combines the HTTP and NATS surfaces of the tracking service
type Handler struct {
	trackingHTTP *httpHandler.TrackingHandler
	trackingNATS *NATSHandler
	cfg          *models.Config
}

// NewHandler creates the combined tracking handler
func NewHandler(
	manager *subscriber.Manager,
	repo tracking.LocationRepo,
	natsClient *natspkg.Client,
	cfg *models.Config,
) *Handler {
	return &Handler{
		trackingHTTP: httpHandler.NewTrackingHandler(manager, repo),
		trackingNATS: NewNATSHandler(manager, natsClient),
		cfg:          cfg,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(h.cfg.JWT))

	api.POST("/tracking/:driverID", h.trackingHTTP.StartSession)
	api.DELETE("/tracking/:driverID", h.trackingHTTP.StopSession)
	api.GET("/tracking/:driverID", h.trackingHTTP.GetSession)

	api.GET("/drivers/:driverID/location", h.trackingHTTP.GetDriverLocation)
	api.GET("/drivers/nearby", h.trackingHTTP.FindNearbyDrivers)
}

// InitNATSConsumers starts the pickup-event consumer
func (h *Handler) InitNATSConsumers() error {
	return h.trackingNATS.InitConsumers()
}

// Close stops the NATS consumers
func (h *Handler) Close() {
	h.trackingNATS.Close()
}
