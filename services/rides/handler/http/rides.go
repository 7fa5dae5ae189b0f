package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/utils"
	"github.com/unipool/unipool/services/rides"
	"github.com/unipool/unipool/services/rides/usecase"
)

// RidesHandler exposes the ride lifecycle over HTTP
type RidesHandler struct {
	rideUC rides.RideUC
}

// NewRidesHandler creates a new rides handler
func NewRidesHandler(rideUC rides.RideUC) *RidesHandler {
	return &RidesHandler{rideUC: rideUC}
}

// RequestRideBody is the body of POST /rides/:rideID/requests
type RequestRideBody struct {
	Pickup  models.GeoLocation `json:"pickup"`
	Dropoff models.GeoLocation `json:"dropoff"`
	Seats   int                `json:"seats"`
}

// RequestRide creates a pending ride request for the authenticated passenger
func (h *RidesHandler) RequestRide(c echo.Context) error {
	rideID, err := uuid.Parse(c.Param("rideID"))
	if err != nil {
		return utils.BadRequestResponse(c, "invalid ride id")
	}

	passengerID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var body RequestRideBody
	if err := c.Bind(&body); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	req, err := h.rideUC.RequestRide(c.Request().Context(), &models.RideRequest{
		RideID:      rideID,
		PassengerID: passengerID,
		Pickup:      body.Pickup,
		Dropoff:     body.Dropoff,
		Seats:       body.Seats,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRequest) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "failed to create ride request")
	}

	return utils.SuccessResponse(c, http.StatusCreated, "ride requested", req)
}

// ListRideRequests lets a driver poll for requests on a ride. The optional
// since query parameter (RFC 3339) limits the result to newer requests.
func (h *RidesHandler) ListRideRequests(c echo.Context) error {
	rideID, err := uuid.Parse(c.Param("rideID"))
	if err != nil {
		return utils.BadRequestResponse(c, "invalid ride id")
	}

	var since time.Time
	if raw := c.QueryParam("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return utils.BadRequestResponse(c, "invalid since timestamp")
		}
	}

	requests, err := h.rideUC.ListRideRequests(c.Request().Context(), rideID, since)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRequest) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "failed to list ride requests")
	}

	return utils.SuccessResponse(c, http.StatusOK, "ride requests", requests)
}

// AcceptRideRequest accepts a pending request as the authenticated driver
func (h *RidesHandler) AcceptRideRequest(c echo.Context) error {
	requestID, err := uuid.Parse(c.Param("requestID"))
	if err != nil {
		return utils.BadRequestResponse(c, "invalid request id")
	}

	driverID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	booking, err := h.rideUC.AcceptRideRequest(c.Request().Context(), requestID, driverID)
	if err != nil {
		switch {
		case errors.Is(err, rides.ErrRequestNotFound):
			return utils.NotFoundResponse(c, "ride request not found")
		case errors.Is(err, usecase.ErrRequestResolved):
			return utils.ConflictResponse(c, "ride request already resolved")
		default:
			return utils.InternalServerErrorResponse(c, "failed to accept ride request")
		}
	}

	return utils.SuccessResponse(c, http.StatusOK, "ride request accepted", booking)
}

// RejectRideRequest rejects a pending request
func (h *RidesHandler) RejectRideRequest(c echo.Context) error {
	requestID, err := uuid.Parse(c.Param("requestID"))
	if err != nil {
		return utils.BadRequestResponse(c, "invalid request id")
	}

	req, err := h.rideUC.RejectRideRequest(c.Request().Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, rides.ErrRequestNotFound):
			return utils.NotFoundResponse(c, "ride request not found")
		case errors.Is(err, usecase.ErrRequestResolved):
			return utils.ConflictResponse(c, "ride request already resolved")
		default:
			return utils.InternalServerErrorResponse(c, "failed to reject ride request")
		}
	}

	return utils.SuccessResponse(c, http.StatusOK, "ride request rejected", req)
}

// CalculateFare quotes a fare for a distance and passenger count
func (h *RidesHandler) CalculateFare(c echo.Context) error {
	distanceKm, err := strconv.ParseFloat(c.QueryParam("distance_km"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "invalid distance")
	}

	passengers := 1
	if raw := c.QueryParam("passengers"); raw != "" {
		passengers, err = strconv.Atoi(raw)
		if err != nil {
			return utils.BadRequestResponse(c, "invalid passenger count")
		}
	}

	fare, err := h.rideUC.CalculateFare(distanceKm, passengers)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidFareInput) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "failed to calculate fare")
	}

	return utils.SuccessResponse(c, http.StatusOK, "fare", fare)
}

// DriverProfileBody is the body of PUT /drivers/:driverID/profile
type DriverProfileBody struct {
	Email         string `json:"email"`
	PlateNumber   string `json:"plate_number"`
	LicenceNumber string `json:"licence_number"`
}

// RegisterDriver stores a driver's profile and runs auto-verification
func (h *RidesHandler) RegisterDriver(c echo.Context) error {
	driverID, err := uuid.Parse(c.Param("driverID"))
	if err != nil {
		return utils.BadRequestResponse(c, "invalid driver id")
	}

	var body DriverProfileBody
	if err := c.Bind(&body); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	profile, err := h.rideUC.RegisterDriver(c.Request().Context(), &models.DriverProfile{
		DriverID:      driverID,
		Email:         body.Email,
		PlateNumber:   body.PlateNumber,
		LicenceNumber: body.LicenceNumber,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRequest) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "failed to register driver")
	}

	return utils.SuccessResponse(c, http.StatusOK, "driver profile", profile)
}

// VerifyDriver runs the rule-based auto-verification for a driver
func (h *RidesHandler) VerifyDriver(c echo.Context) error {
	driverID, err := uuid.Parse(c.Param("driverID"))
	if err != nil {
		return utils.BadRequestResponse(c, "invalid driver id")
	}

	profile, err := h.rideUC.AutoVerifyDriver(c.Request().Context(), driverID)
	if err != nil {
		if errors.Is(err, rides.ErrDriverNotFound) {
			return utils.NotFoundResponse(c, "driver not found")
		}
		return utils.InternalServerErrorResponse(c, "failed to verify driver")
	}

	return utils.SuccessResponse(c, http.StatusOK, "driver verification", profile)
}

// PickupStatusBody is the body of PUT /bookings/:bookingID/pickup
type PickupStatusBody struct {
	Status models.BookingStatus `json:"status"`
}

// UpdatePickupStatus marks a booking picked-up or dropped-off
func (h *RidesHandler) UpdatePickupStatus(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("bookingID"))
	if err != nil {
		return utils.BadRequestResponse(c, "invalid booking id")
	}

	var body PickupStatusBody
	if err := c.Bind(&body); err != nil {
		return utils.BadRequestResponse(c, "invalid request body")
	}

	booking, err := h.rideUC.UpdatePickupStatus(c.Request().Context(), bookingID, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, rides.ErrBookingNotFound):
			return utils.NotFoundResponse(c, "booking not found")
		case errors.Is(err, usecase.ErrInvalidPickupStatus):
			return utils.BadRequestResponse(c, err.Error())
		default:
			return utils.InternalServerErrorResponse(c, "failed to update pickup status")
		}
	}

	return utils.SuccessResponse(c, http.StatusOK, "pickup status updated", booking)
}
