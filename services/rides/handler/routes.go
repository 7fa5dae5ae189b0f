package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/middleware"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/services/rides"
	httpHandler "github.com/unipool/unipool/services/rides/handler/http"
)

// Handler wires the rides HTTP surface
type Handler struct {
	ridesHTTP *httpHandler.RidesHandler
	cfg       *models.Config
}

// NewHandler creates the combined rides handler
func NewHandler(rideUC rides.RideUC, cfg *models.Config) *Handler {
	return &Handler{
		ridesHTTP: httpHandler.NewRidesHandler(rideUC),
		cfg:       cfg,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(h.cfg.JWT))

	api.POST("/rides/:rideID/requests", h.ridesHTTP.RequestRide)
	api.GET("/rides/:rideID/requests", h.ridesHTTP.ListRideRequests)
	api.POST("/requests/:requestID/accept", h.ridesHTTP.AcceptRideRequest)
	api.POST("/requests/:requestID/reject", h.ridesHTTP.RejectRideRequest)

	api.GET("/fare", h.ridesHTTP.CalculateFare)
	api.PUT("/drivers/:driverID/profile", h.ridesHTTP.RegisterDriver)
	api.POST("/drivers/:driverID/verify", h.ridesHTTP.VerifyDriver)
	api.PUT("/bookings/:bookingID/pickup", h.ridesHTTP.UpdatePickupStatus)
}
