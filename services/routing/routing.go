package routing

import (
	"context"

	"github.com/unipool/unipool/internal/pkg/models"
)

// RouteClient fetches a drivable route between two points
type RouteClient interface {
	GetRoute(ctx context.Context, origin, dest models.GeoLocation) (*models.Route, error)
}
