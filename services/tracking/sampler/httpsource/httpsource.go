package httpsource

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/utils"
	"github.com/unipool/unipool/services/tracking/sampler"
)

// Source adapts an HTTP ingest endpoint into a sampler.Source. The companion
// device posts raw readings to /position; the agent relays them. Permission
// maps onto whether ingestion has been enabled.
type Source struct {
	mu        sync.Mutex
	enabled   bool
	permitted sampler.PermissionStatus
	positions chan models.PositionSample
	last      *models.PositionSample
}

// New creates an enabled, granted source with a buffered ingest channel
func New() *Source {
	return &Source{
		enabled:   true,
		permitted: sampler.PermissionGranted,
		positions: make(chan models.PositionSample, 64),
	}
}

var _ sampler.Source = (*Source)(nil)

// RegisterRoutes exposes the ingest endpoint
func (s *Source) RegisterRoutes(e *echo.Echo) {
	e.POST("/position", s.ingest)
}

func (s *Source) ingest(c echo.Context) error {
	var sample models.PositionSample
	if err := c.Bind(&sample); err != nil {
		return utils.BadRequestResponse(c, "invalid position payload")
	}

	s.mu.Lock()
	s.last = &sample
	s.mu.Unlock()

	select {
	case s.positions <- sample:
	default:
		// Buffer full; Current still sees the latest reading
	}

	return utils.SuccessResponse(c, http.StatusAccepted, "position accepted", nil)
}

// CheckPermission reports the configured permission state
func (s *Source) CheckPermission(ctx context.Context) (sampler.PermissionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permitted, nil
}

// RequestPermission grants unless permanently denied
func (s *Source) RequestPermission(ctx context.Context) (sampler.PermissionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.permitted == sampler.PermissionDenied {
		s.permitted = sampler.PermissionGranted
	}
	return s.permitted, nil
}

// ServiceEnabled reports whether ingestion is switched on
func (s *Source) ServiceEnabled(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled, nil
}

// Positions returns the ingest stream
func (s *Source) Positions(ctx context.Context) (<-chan models.PositionSample, error) {
	return s.positions, nil
}

// Current returns the most recently ingested reading
func (s *Source) Current(ctx context.Context) (models.PositionSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return models.PositionSample{}, sampler.ErrServiceDisabled
	}
	return *s.last, nil
}

// SetEnabled toggles the positioning service flag
func (s *Source) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// SetPermission overrides the permission state
func (s *Source) SetPermission(status sampler.PermissionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permitted = status
}
