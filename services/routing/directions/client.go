package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/pkg/polyline"
	"github.com/unipool/unipool/internal/utils"
	"github.com/unipool/unipool/services/routing"
)

// ErrTimeout is returned when the directions API exceeds its deadline
var ErrTimeout = errors.New("directions: request timed out")

// Client calls a Google Directions-style API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new directions client
func NewClient(cfg models.RoutingConfig) routing.RouteClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// directionsResponse mirrors the wire format of the directions API
type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Value float64 `json:"value"` // meters
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"` // seconds
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// GetRoute fetches a route from the directions API
func (c *Client) GetRoute(ctx context.Context, origin, dest models.GeoLocation) (*models.Route, error) {
	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	q.Set("destination", fmt.Sprintf("%f,%f", dest.Latitude, dest.Longitude))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("directions: failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("directions: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions: unexpected status %d", resp.StatusCode)
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("directions: failed to decode response: %w", err)
	}

	if body.Status != "OK" || len(body.Routes) == 0 {
		return nil, fmt.Errorf("directions: no route found (status %s)", body.Status)
	}

	route := body.Routes[0]

	points, err := polyline.Decode(route.OverviewPolyline.Points)
	if err != nil {
		return nil, fmt.Errorf("directions: failed to decode polyline: %w", err)
	}

	var distance, duration float64
	for _, leg := range route.Legs {
		distance += leg.Distance.Value
		duration += leg.Duration.Value
	}

	return &models.Route{
		DistanceMeters: distance,
		Duration:       time.Duration(duration) * time.Second,
		Points:         points,
	}, nil
}

// Estimate builds a local fallback route when the API is unavailable:
// straight-line path, Haversine distance scaled by the road factor, duration
// at the fallback average speed.
func Estimate(origin, dest models.GeoLocation) *models.Route {
	distanceKm := utils.EstimateRoadDistanceKm(origin, dest)
	durationSec := utils.EstimateDurationSeconds(distanceKm)

	return &models.Route{
		DistanceMeters: distanceKm * 1000,
		Duration:       time.Duration(durationSec) * time.Second,
		Points:         []models.GeoLocation{origin, dest},
		Estimated:      true,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}
