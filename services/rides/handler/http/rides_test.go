package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/services/rides"
	"github.com/unipool/unipool/services/rides/usecase"
)

type fakeUC struct {
	requestErr error
	acceptErr  error
	booking    *models.Booking
	requests   []*models.RideRequest
	listSince  time.Time
	fare       *models.FareBreakdown
	fareErr    error
	pickupErr  error
}

func (f *fakeUC) RequestRide(ctx context.Context, req *models.RideRequest) (*models.RideRequest, error) {
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	req.RequestID = uuid.New()
	req.Status = models.RideRequestPending
	return req, nil
}

func (f *fakeUC) ListRideRequests(ctx context.Context, rideID uuid.UUID, since time.Time) ([]*models.RideRequest, error) {
	f.listSince = since
	return f.requests, nil
}

func (f *fakeUC) AcceptRideRequest(ctx context.Context, requestID, driverID uuid.UUID) (*models.Booking, error) {
	if f.acceptErr != nil {
		return nil, f.acceptErr
	}
	return f.booking, nil
}

func (f *fakeUC) RejectRideRequest(ctx context.Context, requestID uuid.UUID) (*models.RideRequest, error) {
	return &models.RideRequest{RequestID: requestID, Status: models.RideRequestRejected}, nil
}

func (f *fakeUC) CalculateFare(distanceKm float64, passengers int) (*models.FareBreakdown, error) {
	if f.fareErr != nil {
		return nil, f.fareErr
	}
	return f.fare, nil
}

func (f *fakeUC) RegisterDriver(ctx context.Context, profile *models.DriverProfile) (*models.DriverProfile, error) {
	profile.Verified = true
	return profile, nil
}

func (f *fakeUC) AutoVerifyDriver(ctx context.Context, driverID uuid.UUID) (*models.DriverProfile, error) {
	return &models.DriverProfile{DriverID: driverID, Verified: true}, nil
}

func (f *fakeUC) UpdatePickupStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	if f.pickupErr != nil {
		return nil, f.pickupErr
	}
	return &models.Booking{BookingID: bookingID, Status: status}, nil
}

func doRequest(handler echo.HandlerFunc, method, path, body string, param, value string, userID uuid.UUID) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if param != "" {
		c.SetParamNames(param)
		c.SetParamValues(value)
	}
	if userID != uuid.Nil {
		c.Set("user_id", userID)
	}
	_ = handler(c)
	return rec
}

func TestRequestRide(t *testing.T) {
	h := NewRidesHandler(&fakeUC{})
	rideID := uuid.New()

	body := `{"pickup":{"latitude":3.1390,"longitude":101.6869},"dropoff":{"latitude":3.1500,"longitude":101.7000},"seats":1}`
	rec := doRequest(h.RequestRide, http.MethodPost, "/api/v1/rides/"+rideID.String()+"/requests",
		body, "rideID", rideID.String(), uuid.New())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestRequestRide_NoAuth(t *testing.T) {
	h := NewRidesHandler(&fakeUC{})
	rideID := uuid.New()

	rec := doRequest(h.RequestRide, http.MethodPost, "/", `{"seats":1}`,
		"rideID", rideID.String(), uuid.Nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListRideRequests(t *testing.T) {
	rideID := uuid.New()
	uc := &fakeUC{requests: []*models.RideRequest{
		{RequestID: uuid.New(), RideID: rideID, Status: models.RideRequestPending},
	}}
	h := NewRidesHandler(uc)

	rec := doRequest(h.ListRideRequests, http.MethodGet,
		"/api/v1/rides/"+rideID.String()+"/requests?since=2026-08-25T08:00:00Z", "",
		"rideID", rideID.String(), uuid.New())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	assert.Equal(t, time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC), uc.listSince.UTC())
}

func TestListRideRequests_BadSince(t *testing.T) {
	h := NewRidesHandler(&fakeUC{})
	rideID := uuid.New()

	rec := doRequest(h.ListRideRequests, http.MethodGet,
		"/api/v1/rides/"+rideID.String()+"/requests?since=yesterday", "",
		"rideID", rideID.String(), uuid.New())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptRideRequest_Conflict(t *testing.T) {
	h := NewRidesHandler(&fakeUC{acceptErr: usecase.ErrRequestResolved})
	requestID := uuid.New()

	rec := doRequest(h.AcceptRideRequest, http.MethodPost, "/", "",
		"requestID", requestID.String(), uuid.New())

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAcceptRideRequest_NotFound(t *testing.T) {
	h := NewRidesHandler(&fakeUC{acceptErr: rides.ErrRequestNotFound})

	rec := doRequest(h.AcceptRideRequest, http.MethodPost, "/", "",
		"requestID", uuid.New().String(), uuid.New())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcceptRideRequest(t *testing.T) {
	booking := &models.Booking{BookingID: uuid.New(), Status: models.BookingConfirmed}
	h := NewRidesHandler(&fakeUC{booking: booking})

	rec := doRequest(h.AcceptRideRequest, http.MethodPost, "/", "",
		"requestID", uuid.New().String(), uuid.New())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestCalculateFare(t *testing.T) {
	h := NewRidesHandler(&fakeUC{fare: &models.FareBreakdown{Total: 6.0, PerPassenger: 2.0, Currency: "MYR"}})

	rec := doRequest(h.CalculateFare, http.MethodGet, "/api/v1/fare?distance_km=5&passengers=3", "",
		"", "", uuid.New())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"per_passenger":2`)
}

func TestCalculateFare_BadInput(t *testing.T) {
	h := NewRidesHandler(&fakeUC{fareErr: usecase.ErrInvalidFareInput})

	rec := doRequest(h.CalculateFare, http.MethodGet, "/api/v1/fare?distance_km=-1", "",
		"", "", uuid.New())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDriver(t *testing.T) {
	h := NewRidesHandler(&fakeUC{})
	driverID := uuid.New()

	body := `{"email":"amir@student.campus.edu","plate_number":"WXY 1234","licence_number":"D12345678"}`
	rec := doRequest(h.RegisterDriver, http.MethodPut, "/", body,
		"driverID", driverID.String(), uuid.New())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verified":true`)
}

func TestRegisterDriver_BadID(t *testing.T) {
	h := NewRidesHandler(&fakeUC{})

	rec := doRequest(h.RegisterDriver, http.MethodPut, "/", `{}`,
		"driverID", "not-a-uuid", uuid.New())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePickupStatus(t *testing.T) {
	h := NewRidesHandler(&fakeUC{})
	bookingID := uuid.New()

	rec := doRequest(h.UpdatePickupStatus, http.MethodPut, "/", `{"status":"picked_up"}`,
		"bookingID", bookingID.String(), uuid.New())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"picked_up"`)
}

func TestUpdatePickupStatus_Invalid(t *testing.T) {
	h := NewRidesHandler(&fakeUC{pickupErr: usecase.ErrInvalidPickupStatus})

	rec := doRequest(h.UpdatePickupStatus, http.MethodPut, "/", `{"status":"cancelled"}`,
		"bookingID", uuid.New().String(), uuid.New())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
