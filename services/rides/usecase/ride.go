package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/utils"
	"github.com/unipool/unipool/services/rides"
)

var (
	// ErrInvalidRequest is returned for malformed ride request input
	ErrInvalidRequest = errors.New("rides: invalid ride request")
	// ErrRequestResolved is returned when accepting or rejecting a request
	// that is no longer pending
	ErrRequestResolved = errors.New("rides: ride request already resolved")
	// ErrInvalidFareInput is returned for out-of-domain fare parameters
	ErrInvalidFareInput = errors.New("rides: invalid fare input")
	// ErrInvalidPickupStatus is returned for unsupported pickup transitions
	ErrInvalidPickupStatus = errors.New("rides: invalid pickup status")
)

// plateFormat accepts standard Malaysian plates, e.g. "WXY 1234" or "PKD21"
var plateFormat = regexp.MustCompile(`^[A-Z]{1,3}\s?\d{1,4}[A-Z]?$`)

// RideUsecase implements the ride business logic
type RideUsecase struct {
	cfg  *models.Config
	repo rides.RideRepo
	gw   rides.RideGW
}

// NewRideUsecase creates a new ride usecase
func NewRideUsecase(cfg *models.Config, repo rides.RideRepo, gw rides.RideGW) *RideUsecase {
	return &RideUsecase{
		cfg:  cfg,
		repo: repo,
		gw:   gw,
	}
}

var _ rides.RideUC = (*RideUsecase)(nil)

// RequestRide creates a pending ride request and announces it
func (uc *RideUsecase) RequestRide(ctx context.Context, req *models.RideRequest) (*models.RideRequest, error) {
	if req.RideID == uuid.Nil || req.PassengerID == uuid.Nil {
		return nil, fmt.Errorf("%w: ride and passenger ids are required", ErrInvalidRequest)
	}
	if req.Seats < 1 {
		return nil, fmt.Errorf("%w: at least one seat", ErrInvalidRequest)
	}

	now := time.Now()
	req.RequestID = uuid.New()
	req.Status = models.RideRequestPending
	req.CreatedAt = now
	req.UpdatedAt = now

	if err := uc.repo.CreateRideRequest(ctx, req); err != nil {
		return nil, err
	}

	if err := uc.gw.PublishRideRequested(ctx, req); err != nil {
		// The request is persisted; the driver can still see it by polling
		logger.Warn("failed to publish ride requested event",
			logger.String("request_id", req.RequestID.String()),
			logger.Err(err))
	}

	return req, nil
}

// ListRideRequests returns a ride's requests created after since, oldest
// first. Drivers poll this to pick up requests whose announcement was lost.
func (uc *RideUsecase) ListRideRequests(ctx context.Context, rideID uuid.UUID, since time.Time) ([]*models.RideRequest, error) {
	if rideID == uuid.Nil {
		return nil, fmt.Errorf("%w: ride id is required", ErrInvalidRequest)
	}
	return uc.repo.ListRequestsSince(ctx, rideID, since)
}

// AcceptRideRequest transitions a pending request to accepted and creates the
// booking. Accepting a request that is no longer pending is an error.
func (uc *RideUsecase) AcceptRideRequest(ctx context.Context, requestID, driverID uuid.UUID) (*models.Booking, error) {
	req, err := uc.repo.GetRideRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RideRequestPending {
		return nil, ErrRequestResolved
	}

	if err := uc.repo.UpdateRequestStatus(ctx, requestID, models.RideRequestPending, models.RideRequestAccepted); err != nil {
		if errors.Is(err, rides.ErrRequestNotFound) {
			// Lost the race against another resolver
			return nil, ErrRequestResolved
		}
		return nil, err
	}

	distanceKm := utils.CalculateDistance(req.Pickup, req.Dropoff)
	fare, err := uc.CalculateFare(distanceKm, req.Seats)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &models.Booking{
		BookingID:   uuid.New(),
		RideID:      req.RideID,
		RequestID:   req.RequestID,
		PassengerID: req.PassengerID,
		DriverID:    driverID,
		Fare:        fare.PerPassenger,
		Status:      models.BookingConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	if err := uc.gw.PublishRideAccepted(ctx, booking); err != nil {
		logger.Warn("failed to publish ride accepted event",
			logger.String("booking_id", booking.BookingID.String()),
			logger.Err(err))
	}

	return booking, nil
}

// RejectRideRequest transitions a pending request to rejected
func (uc *RideUsecase) RejectRideRequest(ctx context.Context, requestID uuid.UUID) (*models.RideRequest, error) {
	req, err := uc.repo.GetRideRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RideRequestPending {
		return nil, ErrRequestResolved
	}

	if err := uc.repo.UpdateRequestStatus(ctx, requestID, models.RideRequestPending, models.RideRequestRejected); err != nil {
		if errors.Is(err, rides.ErrRequestNotFound) {
			return nil, ErrRequestResolved
		}
		return nil, err
	}

	req.Status = models.RideRequestRejected
	req.UpdatedAt = time.Now()

	if err := uc.gw.PublishRideRejected(ctx, req); err != nil {
		logger.Warn("failed to publish ride rejected event",
			logger.String("request_id", req.RequestID.String()),
			logger.Err(err))
	}

	return req, nil
}

// CalculateFare computes the shared fare: base plus a per-km rate, floored at
// the minimum fare, split evenly across passengers, rounded to 2 dp
func (uc *RideUsecase) CalculateFare(distanceKm float64, passengers int) (*models.FareBreakdown, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return nil, fmt.Errorf("%w: distance %v", ErrInvalidFareInput, distanceKm)
	}
	if passengers < 1 {
		return nil, fmt.Errorf("%w: passengers %d", ErrInvalidFareInput, passengers)
	}

	distanceFare := distanceKm * uc.cfg.Fare.PerKmRate
	total := uc.cfg.Fare.BaseFare + distanceFare
	if total < uc.cfg.Fare.MinimumFare {
		total = uc.cfg.Fare.MinimumFare
	}
	total = round2(total)

	return &models.FareBreakdown{
		DistanceKm:   distanceKm,
		BaseFare:     uc.cfg.Fare.BaseFare,
		DistanceFare: round2(distanceFare),
		Total:        total,
		PerPassenger: round2(total / float64(passengers)),
		Currency:     uc.cfg.Fare.Currency,
	}, nil
}

// RegisterDriver stores or refreshes a driver's profile and immediately runs
// the auto-verification rules against it
func (uc *RideUsecase) RegisterDriver(ctx context.Context, profile *models.DriverProfile) (*models.DriverProfile, error) {
	if profile.DriverID == uuid.Nil {
		return nil, fmt.Errorf("%w: driver id is required", ErrInvalidRequest)
	}

	if err := uc.repo.UpsertDriverProfile(ctx, profile); err != nil {
		return nil, err
	}

	return uc.AutoVerifyDriver(ctx, profile.DriverID)
}

// AutoVerifyDriver applies the rule-based verification: campus e-mail domain,
// well-formed plate number, non-empty licence. Drivers that fail any rule
// stay unverified for manual review; that outcome is not an error.
func (uc *RideUsecase) AutoVerifyDriver(ctx context.Context, driverID uuid.UUID) (*models.DriverProfile, error) {
	profile, err := uc.repo.GetDriverProfile(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if profile.Verified {
		return profile, nil
	}

	if !uc.passesVerification(profile) {
		logger.Info("driver left pending for manual review",
			logger.String("driver_id", driverID.String()))
		return profile, nil
	}

	now := time.Now()
	if err := uc.repo.MarkDriverVerified(ctx, driverID, now); err != nil {
		return nil, err
	}

	profile.Verified = true
	profile.VerifiedAt = &now
	return profile, nil
}

func (uc *RideUsecase) passesVerification(profile *models.DriverProfile) bool {
	domain := strings.ToLower(uc.cfg.Verification.CampusEmailDomain)
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if domain == "" || !strings.HasSuffix(email, "@"+domain) {
		return false
	}

	plate := strings.ToUpper(strings.TrimSpace(profile.PlateNumber))
	if !plateFormat.MatchString(plate) {
		return false
	}

	return strings.TrimSpace(profile.LicenceNumber) != ""
}

// UpdatePickupStatus marks a booking picked-up or dropped-off and publishes
// the pickup event the tracking service listens for
func (uc *RideUsecase) UpdatePickupStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	if status != models.BookingPickedUp && status != models.BookingDroppedOff {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPickupStatus, status)
	}

	booking, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()

	ev := &models.PickupEvent{
		RideID:    booking.RideID.String(),
		BookingID: booking.BookingID.String(),
		DriverID:  booking.DriverID.String(),
		Status:    status,
		Timestamp: booking.UpdatedAt,
	}
	// The tracker retargets on this event, so it needs the dropoff point
	if req, err := uc.repo.GetRideRequest(ctx, booking.RequestID); err == nil {
		ev.Destination = req.Dropoff
	} else {
		logger.Warn("pickup event published without a destination",
			logger.String("booking_id", bookingID.String()),
			logger.Err(err))
	}
	if err := uc.gw.PublishPickupEvent(ctx, ev); err != nil {
		logger.Warn("failed to publish pickup event",
			logger.String("booking_id", bookingID.String()),
			logger.Err(err))
	}

	if status == models.BookingDroppedOff {
		if err := uc.gw.PublishRideCompleted(ctx, booking); err != nil {
			logger.Warn("failed to publish ride completed event",
				logger.String("booking_id", bookingID.String()),
				logger.Err(err))
		}
	}

	return booking, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
