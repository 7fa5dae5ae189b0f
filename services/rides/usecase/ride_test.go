package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/services/rides"
)

type fakeRepo struct {
	requests map[uuid.UUID]*models.RideRequest
	bookings map[uuid.UUID]*models.Booking
	profiles map[uuid.UUID]*models.DriverProfile
	verified []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests: make(map[uuid.UUID]*models.RideRequest),
		bookings: make(map[uuid.UUID]*models.Booking),
		profiles: make(map[uuid.UUID]*models.DriverProfile),
	}
}

func (f *fakeRepo) CreateRideRequest(ctx context.Context, req *models.RideRequest) error {
	copied := *req
	f.requests[req.RequestID] = &copied
	return nil
}

func (f *fakeRepo) GetRideRequest(ctx context.Context, requestID uuid.UUID) (*models.RideRequest, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return nil, rides.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRepo) UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, from, to models.RideRequestStatus) error {
	req, ok := f.requests[requestID]
	if !ok || req.Status != from {
		return rides.ErrRequestNotFound
	}
	req.Status = to
	return nil
}

func (f *fakeRepo) ListRequestsSince(ctx context.Context, rideID uuid.UUID, since time.Time) ([]*models.RideRequest, error) {
	var out []*models.RideRequest
	for _, req := range f.requests {
		if req.RideID == rideID && req.CreatedAt.After(since) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	copied := *booking
	f.bookings[booking.BookingID] = &copied
	return nil
}

func (f *fakeRepo) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, rides.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeRepo) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) error {
	booking, ok := f.bookings[bookingID]
	if !ok {
		return rides.ErrBookingNotFound
	}
	booking.Status = status
	return nil
}

func (f *fakeRepo) GetDriverProfile(ctx context.Context, driverID uuid.UUID) (*models.DriverProfile, error) {
	profile, ok := f.profiles[driverID]
	if !ok {
		return nil, rides.ErrDriverNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeRepo) UpsertDriverProfile(ctx context.Context, profile *models.DriverProfile) error {
	copied := *profile
	copied.Verified = false
	copied.VerifiedAt = nil
	f.profiles[profile.DriverID] = &copied
	return nil
}

func (f *fakeRepo) MarkDriverVerified(ctx context.Context, driverID uuid.UUID, verifiedAt time.Time) error {
	if profile, ok := f.profiles[driverID]; ok {
		profile.Verified = true
		profile.VerifiedAt = &verifiedAt
	}
	f.verified = append(f.verified, driverID)
	return nil
}

type fakeGateway struct {
	requested []*models.RideRequest
	accepted  []*models.Booking
	rejected  []*models.RideRequest
	pickups   []*models.PickupEvent
	completed []*models.Booking
}

func (f *fakeGateway) PublishRideRequested(ctx context.Context, req *models.RideRequest) error {
	f.requested = append(f.requested, req)
	return nil
}

func (f *fakeGateway) PublishRideAccepted(ctx context.Context, booking *models.Booking) error {
	f.accepted = append(f.accepted, booking)
	return nil
}

func (f *fakeGateway) PublishRideRejected(ctx context.Context, req *models.RideRequest) error {
	f.rejected = append(f.rejected, req)
	return nil
}

func (f *fakeGateway) PublishPickupEvent(ctx context.Context, ev *models.PickupEvent) error {
	f.pickups = append(f.pickups, ev)
	return nil
}

func (f *fakeGateway) PublishRideCompleted(ctx context.Context, booking *models.Booking) error {
	f.completed = append(f.completed, booking)
	return nil
}

func testConfig() *models.Config {
	return &models.Config{
		Fare: models.FareConfig{
			BaseFare:    2.0,
			PerKmRate:   0.8,
			MinimumFare: 3.0,
			Currency:    "MYR",
		},
		Verification: models.VerificationConfig{
			CampusEmailDomain: "student.campus.edu",
		},
	}
}

func newTestUsecase() (*RideUsecase, *fakeRepo, *fakeGateway) {
	repo := newFakeRepo()
	gw := &fakeGateway{}
	return NewRideUsecase(testConfig(), repo, gw), repo, gw
}

func pendingRequest(repo *fakeRepo) *models.RideRequest {
	req := &models.RideRequest{
		RequestID:   uuid.New(),
		RideID:      uuid.New(),
		PassengerID: uuid.New(),
		Pickup:      models.GeoLocation{Latitude: 3.1390, Longitude: 101.6869},
		Dropoff:     models.GeoLocation{Latitude: 3.1500, Longitude: 101.7000},
		Seats:       2,
		Status:      models.RideRequestPending,
		CreatedAt:   time.Now(),
	}
	repo.requests[req.RequestID] = req
	return req
}

func TestRequestRide(t *testing.T) {
	uc, repo, gw := newTestUsecase()

	req, err := uc.RequestRide(context.Background(), &models.RideRequest{
		RideID:      uuid.New(),
		PassengerID: uuid.New(),
		Pickup:      models.GeoLocation{Latitude: 3.1390, Longitude: 101.6869},
		Dropoff:     models.GeoLocation{Latitude: 3.1500, Longitude: 101.7000},
		Seats:       1,
	})

	require.NoError(t, err)
	assert.Equal(t, models.RideRequestPending, req.Status)
	assert.NotEqual(t, uuid.Nil, req.RequestID)
	assert.Contains(t, repo.requests, req.RequestID)
	require.Len(t, gw.requested, 1)
}

func TestRequestRide_Invalid(t *testing.T) {
	uc, _, _ := newTestUsecase()

	_, err := uc.RequestRide(context.Background(), &models.RideRequest{
		RideID: uuid.New(), PassengerID: uuid.New(), Seats: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = uc.RequestRide(context.Background(), &models.RideRequest{Seats: 1})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestListRideRequests(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	req := pendingRequest(repo)

	stale := pendingRequest(repo)
	stale.RideID = req.RideID
	stale.CreatedAt = time.Now().Add(-time.Hour)

	got, err := uc.ListRideRequests(context.Background(), req.RideID, time.Now().Add(-time.Minute))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, req.RequestID, got[0].RequestID)
}

func TestListRideRequests_Invalid(t *testing.T) {
	uc, _, _ := newTestUsecase()

	_, err := uc.ListRideRequests(context.Background(), uuid.Nil, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAcceptRideRequest(t *testing.T) {
	uc, repo, gw := newTestUsecase()
	req := pendingRequest(repo)
	driverID := uuid.New()

	booking, err := uc.AcceptRideRequest(context.Background(), req.RequestID, driverID)

	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, driverID, booking.DriverID)
	assert.Equal(t, req.PassengerID, booking.PassengerID)
	assert.Greater(t, booking.Fare, 0.0)
	assert.Equal(t, models.RideRequestAccepted, repo.requests[req.RequestID].Status)
	require.Len(t, gw.accepted, 1)
}

func TestAcceptRideRequest_AlreadyResolved(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	req := pendingRequest(repo)
	req.Status = models.RideRequestRejected

	_, err := uc.AcceptRideRequest(context.Background(), req.RequestID, uuid.New())
	assert.ErrorIs(t, err, ErrRequestResolved)
}

func TestAcceptRideRequest_NotFound(t *testing.T) {
	uc, _, _ := newTestUsecase()

	_, err := uc.AcceptRideRequest(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, rides.ErrRequestNotFound)
}

func TestRejectRideRequest(t *testing.T) {
	uc, repo, gw := newTestUsecase()
	req := pendingRequest(repo)

	rejected, err := uc.RejectRideRequest(context.Background(), req.RequestID)

	require.NoError(t, err)
	assert.Equal(t, models.RideRequestRejected, rejected.Status)
	assert.Equal(t, models.RideRequestRejected, repo.requests[req.RequestID].Status)
	require.Len(t, gw.rejected, 1)
}

func TestCalculateFare(t *testing.T) {
	uc, _, _ := newTestUsecase()

	tests := []struct {
		name         string
		distanceKm   float64
		passengers   int
		total        float64
		perPassenger float64
	}{
		{"short trip hits the floor", 0.5, 1, 3.0, 3.0},
		{"five km solo", 5, 1, 6.0, 6.0},
		{"five km shared by three", 5, 3, 6.0, 2.0},
		{"rounding to 2 dp", 4.7, 3, 5.76, 1.92},
		{"zero distance", 0, 2, 3.0, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fare, err := uc.CalculateFare(tt.distanceKm, tt.passengers)
			require.NoError(t, err)
			assert.InDelta(t, tt.total, fare.Total, 1e-9)
			assert.InDelta(t, tt.perPassenger, fare.PerPassenger, 1e-9)
			assert.Equal(t, "MYR", fare.Currency)
		})
	}
}

func TestCalculateFare_Invalid(t *testing.T) {
	uc, _, _ := newTestUsecase()

	_, err := uc.CalculateFare(-1, 1)
	assert.ErrorIs(t, err, ErrInvalidFareInput)

	_, err = uc.CalculateFare(5, 0)
	assert.ErrorIs(t, err, ErrInvalidFareInput)
}

func TestAutoVerifyDriver(t *testing.T) {
	tests := []struct {
		name     string
		profile  models.DriverProfile
		verified bool
	}{
		{
			"all rules pass",
			models.DriverProfile{Email: "amir@student.campus.edu", PlateNumber: "WXY 1234", LicenceNumber: "D12345678"},
			true,
		},
		{
			"plate without space",
			models.DriverProfile{Email: "amir@student.campus.edu", PlateNumber: "PKD21", LicenceNumber: "D12345678"},
			true,
		},
		{
			"wrong e-mail domain",
			models.DriverProfile{Email: "amir@gmail.com", PlateNumber: "WXY 1234", LicenceNumber: "D12345678"},
			false,
		},
		{
			"malformed plate",
			models.DriverProfile{Email: "amir@student.campus.edu", PlateNumber: "12345", LicenceNumber: "D12345678"},
			false,
		},
		{
			"missing licence",
			models.DriverProfile{Email: "amir@student.campus.edu", PlateNumber: "WXY 1234", LicenceNumber: "  "},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newTestUsecase()
			driverID := uuid.New()
			profile := tt.profile
			profile.DriverID = driverID
			repo.profiles[driverID] = &profile

			got, err := uc.AutoVerifyDriver(context.Background(), driverID)
			require.NoError(t, err)
			assert.Equal(t, tt.verified, got.Verified)
			if tt.verified {
				assert.NotNil(t, got.VerifiedAt)
			}
		})
	}
}

func TestRegisterDriver_VerifiesEligibleProfile(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	driverID := uuid.New()

	got, err := uc.RegisterDriver(context.Background(), &models.DriverProfile{
		DriverID:      driverID,
		Email:         "amir@student.campus.edu",
		PlateNumber:   "WXY 1234",
		LicenceNumber: "D12345678",
	})

	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Contains(t, repo.profiles, driverID)
}

func TestRegisterDriver_IneligibleStaysPending(t *testing.T) {
	uc, _, _ := newTestUsecase()

	got, err := uc.RegisterDriver(context.Background(), &models.DriverProfile{
		DriverID:      uuid.New(),
		Email:         "amir@gmail.com",
		PlateNumber:   "WXY 1234",
		LicenceNumber: "D12345678",
	})

	require.NoError(t, err)
	assert.False(t, got.Verified)
}

func TestAutoVerifyDriver_AlreadyVerified(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	driverID := uuid.New()
	repo.profiles[driverID] = &models.DriverProfile{DriverID: driverID, Verified: true}

	got, err := uc.AutoVerifyDriver(context.Background(), driverID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Empty(t, repo.verified, "no second verification write")
}

func TestUpdatePickupStatus(t *testing.T) {
	uc, repo, gw := newTestUsecase()
	req := pendingRequest(repo)

	booking := &models.Booking{
		BookingID:   uuid.New(),
		RideID:      req.RideID,
		RequestID:   req.RequestID,
		DriverID:    uuid.New(),
		PassengerID: req.PassengerID,
		Status:      models.BookingConfirmed,
	}
	repo.bookings[booking.BookingID] = booking

	updated, err := uc.UpdatePickupStatus(context.Background(), booking.BookingID, models.BookingPickedUp)

	require.NoError(t, err)
	assert.Equal(t, models.BookingPickedUp, updated.Status)
	require.Len(t, gw.pickups, 1)
	assert.Equal(t, booking.DriverID.String(), gw.pickups[0].DriverID)
	// The tracker retargets on this event: it must carry the dropoff point
	assert.Equal(t, req.Dropoff, gw.pickups[0].Destination)
	assert.Empty(t, gw.completed)
}

func TestUpdatePickupStatus_DropoffCompletesRide(t *testing.T) {
	uc, repo, gw := newTestUsecase()

	booking := &models.Booking{
		BookingID: uuid.New(),
		RideID:    uuid.New(),
		DriverID:  uuid.New(),
		Status:    models.BookingPickedUp,
	}
	repo.bookings[booking.BookingID] = booking

	_, err := uc.UpdatePickupStatus(context.Background(), booking.BookingID, models.BookingDroppedOff)

	require.NoError(t, err)
	require.Len(t, gw.pickups, 1)
	require.Len(t, gw.completed, 1)
}

func TestUpdatePickupStatus_InvalidStatus(t *testing.T) {
	uc, _, _ := newTestUsecase()

	_, err := uc.UpdatePickupStatus(context.Background(), uuid.New(), models.BookingCancelled)
	assert.ErrorIs(t, err, ErrInvalidPickupStatus)
}
