package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/unipool/unipool/internal/pkg/constants"
	"github.com/unipool/unipool/internal/pkg/database"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/utils"
	"github.com/unipool/unipool/services/tracking"
)

// ErrNoSample is returned when a driver has no cached position
var ErrNoSample = errors.New("repository: no cached position for driver")

// locationTTL keeps stale drivers out of the cache; a live relay refreshes
// its key well within this window
const locationTTL = 5 * time.Minute

// LocationRepo stores each driver's latest position in Redis: one hash per
// driver plus a shared geo set for radius queries
type LocationRepo struct {
	client *database.RedisClient
}

// NewLocationRepo creates a Redis-backed location repository
func NewLocationRepo(client *database.RedisClient) *LocationRepo {
	return &LocationRepo{client: client}
}

var _ tracking.LocationRepo = (*LocationRepo)(nil)

// StoreSample overwrites the driver's cached position. Later writes win;
// there is no history.
func (r *LocationRepo) StoreSample(ctx context.Context, sample models.PositionSample) error {
	key := fmt.Sprintf(constants.KeyDriverLocation, sample.DriverID)

	fields := map[string]interface{}{
		constants.FieldLatitude:  sample.Latitude,
		constants.FieldLongitude: sample.Longitude,
		constants.FieldTimestamp: sample.TimestampMS,
		constants.FieldSpeed:     sample.SpeedMPS,
		constants.FieldBearing:   sample.Bearing,
		constants.FieldGeohash:   utils.GeohashCell(sample.Location()),
	}

	if err := r.client.HMSet(ctx, key, fields); err != nil {
		return fmt.Errorf("failed to store driver location: %w", err)
	}
	if err := r.client.Expire(ctx, key, locationTTL); err != nil {
		return fmt.Errorf("failed to set location TTL: %w", err)
	}

	if err := r.client.GeoAdd(ctx, constants.KeyDriverGeo, sample.Longitude, sample.Latitude, sample.DriverID); err != nil {
		return fmt.Errorf("failed to update driver geo set: %w", err)
	}
	return nil
}

// GetLastSample reads the driver's cached position
func (r *LocationRepo) GetLastSample(ctx context.Context, driverID string) (*models.PositionSample, error) {
	key := fmt.Sprintf(constants.KeyDriverLocation, driverID)

	vals, err := r.client.HMGet(ctx, key,
		constants.FieldLatitude,
		constants.FieldLongitude,
		constants.FieldTimestamp,
		constants.FieldSpeed,
		constants.FieldBearing,
	)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSample
		}
		return nil, fmt.Errorf("failed to read driver location: %w", err)
	}
	if len(vals) < 5 || vals[0] == "" || vals[1] == "" {
		return nil, ErrNoSample
	}

	sample := &models.PositionSample{DriverID: driverID}
	if sample.Latitude, err = strconv.ParseFloat(vals[0], 64); err != nil {
		return nil, fmt.Errorf("corrupt latitude for driver %s: %w", driverID, err)
	}
	if sample.Longitude, err = strconv.ParseFloat(vals[1], 64); err != nil {
		return nil, fmt.Errorf("corrupt longitude for driver %s: %w", driverID, err)
	}
	if vals[2] != "" {
		if sample.TimestampMS, err = strconv.ParseInt(vals[2], 10, 64); err != nil {
			return nil, fmt.Errorf("corrupt timestamp for driver %s: %w", driverID, err)
		}
	}
	if vals[3] != "" {
		sample.SpeedMPS, _ = strconv.ParseFloat(vals[3], 64)
	}
	if vals[4] != "" {
		sample.Bearing, _ = strconv.ParseFloat(vals[4], 64)
	}
	return sample, nil
}

// GetNearbyDrivers queries the geo set for live drivers around a point
func (r *LocationRepo) GetNearbyDrivers(ctx context.Context, center models.GeoLocation, radiusKm float64) ([]tracking.NearbyDriver, error) {
	locations, err := r.client.GeoRadius(ctx, constants.KeyDriverGeo, center.Longitude, center.Latitude, radiusKm, "km")
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby drivers: %w", err)
	}

	drivers := make([]tracking.NearbyDriver, 0, len(locations))
	for _, loc := range locations {
		drivers = append(drivers, tracking.NearbyDriver{
			DriverID: loc.Name,
			Location: models.GeoLocation{
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
			},
			DistanceKm: loc.Dist,
		})
	}
	return drivers, nil
}
