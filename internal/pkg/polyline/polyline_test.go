package polyline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unipool/unipool/internal/pkg/models"
)

func TestDecode_GoogleReferenceExample(t *testing.T) {
	// The documented reference string for the format
	points, err := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.InDelta(t, 38.5, points[0].Latitude, 1e-5)
	assert.InDelta(t, -120.2, points[0].Longitude, 1e-5)
	assert.InDelta(t, 40.7, points[1].Latitude, 1e-5)
	assert.InDelta(t, -120.95, points[1].Longitude, 1e-5)
	assert.InDelta(t, 43.252, points[2].Latitude, 1e-5)
	assert.InDelta(t, -126.453, points[2].Longitude, 1e-5)
}

func TestEncode_GoogleReferenceExample(t *testing.T) {
	encoded := Encode([]models.GeoLocation{
		{Latitude: 38.5, Longitude: -120.2},
		{Latitude: 40.7, Longitude: -120.95},
		{Latitude: 43.252, Longitude: -126.453},
	})

	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)
}

func TestRoundTrip_FiveDecimalPrecision(t *testing.T) {
	original := []models.GeoLocation{
		{Latitude: 3.13900, Longitude: 101.68690},
		{Latitude: 3.14123, Longitude: 101.69001},
		{Latitude: 3.15555, Longitude: 101.70120},
		{Latitude: -3.98765, Longitude: -101.12345},
		{Latitude: 0, Longitude: 0},
	}

	decoded, err := Decode(Encode(original))
	require.NoError(t, err)
	require.Len(t, decoded, len(original))

	for i := range original {
		assert.InDelta(t, original[i].Latitude, decoded[i].Latitude, 1e-5, "lat %d", i)
		assert.InDelta(t, original[i].Longitude, decoded[i].Longitude, 1e-5, "lng %d", i)
	}
}

func TestDecode_Truncated(t *testing.T) {
	_, err := Decode("_p~iF")
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Encode(nil))

	points, err := Decode("")
	assert.NoError(t, err)
	assert.Empty(t, points)
}
