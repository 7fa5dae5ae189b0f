package httpsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unipool/unipool/services/tracking/sampler"
)

func postPosition(t *testing.T, src *Source, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/position", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = src.ingest(c)
	return rec
}

func TestIngest(t *testing.T) {
	src := New()

	rec := postPosition(t, src, `{"driver_id":"driver-1","lat":3.1390,"lng":101.6869,"speed_mps":5}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	positions, err := src.Positions(context.Background())
	require.NoError(t, err)

	select {
	case sample := <-positions:
		assert.Equal(t, "driver-1", sample.DriverID)
		assert.InDelta(t, 3.1390, sample.Latitude, 1e-9)
	case <-time.After(time.Second):
		t.Fatal("no sample on the stream")
	}

	current, err := src.Current(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 3.1390, current.Latitude, 1e-9)
}

func TestIngest_Malformed(t *testing.T) {
	src := New()

	rec := postPosition(t, src, `{"lat": not-json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrent_NoFix(t *testing.T) {
	src := New()

	_, err := src.Current(context.Background())
	assert.Error(t, err)
}

func TestPermissionToggles(t *testing.T) {
	src := New()

	status, err := src.CheckPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampler.PermissionGranted, status)

	src.SetPermission(sampler.PermissionDeniedForever)
	status, err = src.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampler.PermissionDeniedForever, status)

	enabled, err := src.ServiceEnabled(context.Background())
	require.NoError(t, err)
	assert.True(t, enabled)
	src.SetEnabled(false)
	enabled, _ = src.ServiceEnabled(context.Background())
	assert.False(t, enabled)
}
