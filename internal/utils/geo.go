package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/unipool/unipool/internal/pkg/models"
)

const (
	// earthRadiusKm is the mean Earth radius
	earthRadiusKm = 6371.0

	// RoadFactor scales straight-line distance to an estimated road distance
	RoadFactor = 1.3

	// FallbackAvgSpeedKmh is the assumed average speed when the routing API
	// is unavailable and a duration must be guessed
	FallbackAvgSpeedKmh = 40.0

	// geohashPrecision gives cells of roughly 150m, enough for coarse
	// proximity grouping of live drivers
	geohashPrecision = 7
)

// CalculateDistance returns the Haversine distance between two points in kilometers
func CalculateDistance(p1, p2 models.GeoLocation) float64 {
	lat1 := p1.Latitude * math.Pi / 180.0
	lon1 := p1.Longitude * math.Pi / 180.0
	lat2 := p2.Latitude * math.Pi / 180.0
	lon2 := p2.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceMeters returns the Haversine distance between two points in meters
func DistanceMeters(p1, p2 models.GeoLocation) float64 {
	return CalculateDistance(p1, p2) * 1000
}

// EstimateRoadDistanceKm guesses road distance from straight-line distance
func EstimateRoadDistanceKm(p1, p2 models.GeoLocation) float64 {
	return CalculateDistance(p1, p2) * RoadFactor
}

// EstimateDurationSeconds guesses travel time for a road distance at the
// fallback average speed
func EstimateDurationSeconds(distanceKm float64) float64 {
	return distanceKm / FallbackAvgSpeedKmh * 3600
}

// SanitizeReading coerces invalid sensor readings (NaN, infinite, negative)
// to zero. Speed and bearing must be finite non-negative numbers on the wire.
func SanitizeReading(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// GeohashCell returns the geohash cell for a location
func GeohashCell(loc models.GeoLocation) string {
	return geohash.EncodeWithPrecision(loc.Latitude, loc.Longitude, geohashPrecision)
}
