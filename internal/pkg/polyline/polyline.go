// Package polyline implements the encoded polyline format used by routing
// APIs: coordinate deltas scaled by 1e5, zig-zag signed, written as 5-bit
// groups with a continuation bit, offset by 63 into printable ASCII.
package polyline

import (
	"errors"
	"math"
	"strings"

	"github.com/unipool/unipool/internal/pkg/models"
)

// ErrTruncated is returned when the input ends in the middle of a value
var ErrTruncated = errors.New("polyline: truncated input")

const precision = 1e5

// Encode converts a coordinate sequence to its polyline representation
func Encode(points []models.GeoLocation) string {
	var sb strings.Builder
	var prevLat, prevLng int64

	for _, p := range points {
		lat := int64(math.Round(p.Latitude * precision))
		lng := int64(math.Round(p.Longitude * precision))

		writeValue(&sb, lat-prevLat)
		writeValue(&sb, lng-prevLng)

		prevLat = lat
		prevLng = lng
	}

	return sb.String()
}

// Decode converts a polyline string back to a coordinate sequence
func Decode(encoded string) ([]models.GeoLocation, error) {
	var points []models.GeoLocation
	var lat, lng int64

	for i := 0; i < len(encoded); {
		dLat, next, err := readValue(encoded, i)
		if err != nil {
			return nil, err
		}
		dLng, after, err := readValue(encoded, next)
		if err != nil {
			return nil, err
		}

		lat += dLat
		lng += dLng
		points = append(points, models.GeoLocation{
			Latitude:  float64(lat) / precision,
			Longitude: float64(lng) / precision,
		})
		i = after
	}

	return points, nil
}

func writeValue(sb *strings.Builder, v int64) {
	// zig-zag: left shift, invert when negative
	u := v << 1
	if v < 0 {
		u = ^u
	}

	for u >= 0x20 {
		sb.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	sb.WriteByte(byte(u + 63))
}

func readValue(s string, i int) (int64, int, error) {
	var result int64
	var shift uint

	for {
		if i >= len(s) {
			return 0, i, ErrTruncated
		}
		b := int64(s[i]) - 63
		i++

		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}
