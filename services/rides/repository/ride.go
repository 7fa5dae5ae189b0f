package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/services/rides"
)

// RideRepo persists ride requests, bookings, and driver profiles
type RideRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewRideRepository creates a new ride repository
func NewRideRepository(cfg *models.Config, db *sqlx.DB) *RideRepo {
	return &RideRepo{
		cfg: cfg,
		db:  db,
	}
}

var _ rides.RideRepo = (*RideRepo)(nil)

// CreateRideRequest inserts a new ride request
func (r *RideRepo) CreateRideRequest(ctx context.Context, req *models.RideRequest) error {
	query := `
		INSERT INTO ride_requests (
			request_id, ride_id, passenger_id,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			seats, status, created_at, updated_at
		) VALUES (
			:request_id, :ride_id, :passenger_id,
			:pickup_lat, :pickup_lng, :dropoff_lat, :dropoff_lng,
			:seats, :status, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, req.ToDTO())
	if err != nil {
		return fmt.Errorf("failed to create ride request: %w", err)
	}
	return nil
}

// GetRideRequest retrieves a ride request by ID
func (r *RideRepo) GetRideRequest(ctx context.Context, requestID uuid.UUID) (*models.RideRequest, error) {
	query := `
		SELECT request_id, ride_id, passenger_id,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			seats, status, created_at, updated_at
		FROM ride_requests
		WHERE request_id = $1
	`

	var dto models.RideRequestDTO
	if err := r.db.GetContext(ctx, &dto, query, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rides.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get ride request: %w", err)
	}
	return dto.ToRequest(), nil
}

// UpdateRequestStatus transitions a request from one status to another. The
// status guard lives in the WHERE clause so concurrent accept/reject races
// resolve to exactly one winner.
func (r *RideRepo) UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, from, to models.RideRequestStatus) error {
	query := `
		UPDATE ride_requests
		SET status = $1, updated_at = $2
		WHERE request_id = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, to, time.Now(), requestID, from)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return rides.ErrRequestNotFound
	}
	return nil
}

// ListRequestsSince retrieves a ride's requests created after a point in time
func (r *RideRepo) ListRequestsSince(ctx context.Context, rideID uuid.UUID, since time.Time) ([]*models.RideRequest, error) {
	query := `
		SELECT request_id, ride_id, passenger_id,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			seats, status, created_at, updated_at
		FROM ride_requests
		WHERE ride_id = $1 AND created_at > $2
		ORDER BY created_at
	`

	var dtos []models.RideRequestDTO
	if err := r.db.SelectContext(ctx, &dtos, query, rideID, since); err != nil {
		return nil, fmt.Errorf("failed to list ride requests: %w", err)
	}

	requests := make([]*models.RideRequest, 0, len(dtos))
	for i := range dtos {
		requests = append(requests, dtos[i].ToRequest())
	}
	return requests, nil
}

// CreateBooking inserts a new booking
func (r *RideRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			booking_id, ride_id, request_id, passenger_id, driver_id,
			fare, status, created_at, updated_at
		) VALUES (
			:booking_id, :ride_id, :request_id, :passenger_id, :driver_id,
			:fare, :status, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetBooking retrieves a booking by ID
func (r *RideRepo) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT booking_id, ride_id, request_id, passenger_id, driver_id,
			fare, status, created_at, updated_at
		FROM bookings
		WHERE booking_id = $1
	`

	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rides.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// UpdateBookingStatus sets a booking's status
func (r *RideRepo) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE booking_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), bookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return rides.ErrBookingNotFound
	}
	return nil
}

// GetDriverProfile retrieves the verification fields of a driver
func (r *RideRepo) GetDriverProfile(ctx context.Context, driverID uuid.UUID) (*models.DriverProfile, error) {
	query := `
		SELECT driver_id, email, plate_number, licence_number, verified, verified_at
		FROM driver_profiles
		WHERE driver_id = $1
	`

	var profile models.DriverProfile
	if err := r.db.GetContext(ctx, &profile, query, driverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rides.ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to get driver profile: %w", err)
	}
	return &profile, nil
}

// UpsertDriverProfile inserts or refreshes a driver's verification fields.
// An update clears the verified flag; changed details must pass the rules
// again.
func (r *RideRepo) UpsertDriverProfile(ctx context.Context, profile *models.DriverProfile) error {
	query := `
		INSERT INTO driver_profiles (driver_id, email, plate_number, licence_number, verified)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (driver_id) DO UPDATE
		SET email = EXCLUDED.email,
			plate_number = EXCLUDED.plate_number,
			licence_number = EXCLUDED.licence_number,
			verified = FALSE,
			verified_at = NULL
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.DriverID, profile.Email, profile.PlateNumber, profile.LicenceNumber)
	if err != nil {
		return fmt.Errorf("failed to upsert driver profile: %w", err)
	}
	return nil
}

// MarkDriverVerified records a successful auto-verification. Re-verifying an
// already-verified driver is a no-op, not an error.
func (r *RideRepo) MarkDriverVerified(ctx context.Context, driverID uuid.UUID, verifiedAt time.Time) error {
	query := `
		UPDATE driver_profiles
		SET verified = TRUE, verified_at = $1
		WHERE driver_id = $2 AND verified = FALSE
	`

	if _, err := r.db.ExecContext(ctx, query, verifiedAt, driverID); err != nil {
		return fmt.Errorf("failed to mark driver verified: %w", err)
	}
	return nil
}
