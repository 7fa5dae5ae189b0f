package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/utils"
	"github.com/unipool/unipool/services/tracking"
	"github.com/unipool/unipool/services/tracking/repository"
	"github.com/unipool/unipool/services/tracking/subscriber"
)

// TrackingHandler exposes tracking sessions and cached driver positions
type TrackingHandler struct {
	manager *subscriber.Manager
	repo    tracking.LocationRepo
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(manager *subscriber.Manager, repo tracking.LocationRepo) *TrackingHandler {
	return &TrackingHandler{manager: manager, repo: repo}
}

// StartSessionRequest is the body of POST /tracking/:driverID
type StartSessionRequest struct {
	Pickup      models.GeoLocation `json:"pickup"`
	Destination models.GeoLocation `json:"destination"`
}

// StartSession opens a tracking session for a driver
func (h *TrackingHandler) StartSession(c echo.Context) error {
	driverID := c.Param("driverID")
	if driverID == "" {
		return utils.BadRequestResponse(c, "driver id is required")
	}

	var req StartSessionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	tracker, err := h.manager.StartSession(driverID, req.Pickup, req.Destination)
	if err != nil {
		if errors.Is(err, subscriber.ErrSessionExists) {
			return utils.ConflictResponse(c, "tracking session already active")
		}
		return utils.InternalServerErrorResponse(c, "failed to start tracking session")
	}

	return utils.SuccessResponse(c, http.StatusCreated, "tracking session started", tracker.State())
}

// StopSession closes a driver's tracking session
func (h *TrackingHandler) StopSession(c echo.Context) error {
	driverID := c.Param("driverID")
	if driverID == "" {
		return utils.BadRequestResponse(c, "driver id is required")
	}

	h.manager.StopSession(driverID)
	return utils.SuccessResponse(c, http.StatusOK, "tracking session stopped", nil)
}

// GetSession returns the live snapshot of a tracking session
func (h *TrackingHandler) GetSession(c echo.Context) error {
	driverID := c.Param("driverID")

	state, err := h.manager.State(driverID)
	if err != nil {
		if errors.Is(err, subscriber.ErrSessionNotFound) {
			return utils.NotFoundResponse(c, "no tracking session for driver")
		}
		return utils.InternalServerErrorResponse(c, "failed to read tracking session")
	}

	return utils.SuccessResponse(c, http.StatusOK, "tracking session", state)
}

// GetDriverLocation returns a driver's last cached position
func (h *TrackingHandler) GetDriverLocation(c echo.Context) error {
	driverID := c.Param("driverID")

	sample, err := h.repo.GetLastSample(c.Request().Context(), driverID)
	if err != nil {
		if errors.Is(err, repository.ErrNoSample) {
			return utils.NotFoundResponse(c, "no known position for driver")
		}
		return utils.InternalServerErrorResponse(c, "failed to read driver location")
	}

	return utils.SuccessResponse(c, http.StatusOK, "driver location", sample)
}

// FindNearbyDrivers returns live drivers within a radius of a point
func (h *TrackingHandler) FindNearbyDrivers(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "invalid latitude")
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "invalid longitude")
	}

	radiusKm := 5.0
	if raw := c.QueryParam("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			return utils.BadRequestResponse(c, "invalid radius")
		}
	}

	drivers, err := h.repo.GetNearbyDrivers(c.Request().Context(),
		models.GeoLocation{Latitude: lat, Longitude: lng}, radiusKm)
	if err != nil {
		return utils.InternalServerErrorResponse(c, "failed to query nearby drivers")
	}

	return utils.SuccessResponse(c, http.StatusOK, "nearby drivers", drivers)
}
