package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/unipool/unipool/internal/pkg/constants"
	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/utils"
	"github.com/unipool/unipool/services/routing"
	"github.com/unipool/unipool/services/routing/directions"
	"github.com/unipool/unipool/services/tracking"
)

// epsilonSpeedMPS is 1 km/h: below this the driver is effectively
// stationary and the ETA is indeterminate rather than near-infinite
const epsilonSpeedMPS = 1.0 / 3.6

// routeFetchTimeout bounds each directions call
const routeFetchTimeout = 10 * time.Second

// Tracker is one passenger-side tracking session for a driver. It lives only
// for the duration of the tracking screen; Stop must run on every exit path.
type Tracker struct {
	transport tracking.Transport
	routes    routing.RouteClient
	repo      tracking.LocationRepo // optional cache of last-known positions
	cfg       models.MQTTConfig
	tuning    models.TrackingConfig

	driverID    string
	topic       string
	destination models.GeoLocation

	mu         sync.Mutex
	target     models.TrackingTarget
	last       *models.PositionSample
	route      *models.Route
	routeAt    *models.GeoLocation // driver position at the last route fetch
	updatedAt  time.Time
	stopped    bool
}

// NewTracker creates a tracking session heading to pickup first
func NewTracker(
	transport tracking.Transport,
	routes routing.RouteClient,
	repo tracking.LocationRepo,
	cfg models.MQTTConfig,
	tuning models.TrackingConfig,
	driverID string,
	pickup models.GeoLocation,
	destination models.GeoLocation,
) *Tracker {
	if tuning.RouteRefreshM <= 0 {
		tuning.RouteRefreshM = 100
	}
	return &Tracker{
		transport:   transport,
		routes:      routes,
		repo:        repo,
		cfg:         cfg,
		tuning:      tuning,
		driverID:    driverID,
		topic:       constants.DriverLocationTopic(cfg.Namespace, driverID),
		destination: destination,
		target: models.TrackingTarget{
			Kind:     models.TargetPickup,
			Location: pickup,
		},
	}
}

// Start connects with subscriber-scoped credentials and subscribes to the
// driver's location topic
func (t *Tracker) Start() error {
	if !t.transport.IsConnected() {
		clientID := "unipool-tracker-" + uuid.New().String()
		if err := t.transport.Connect(clientID, t.cfg.SubscriberUser, t.cfg.SubscriberPassword); err != nil {
			return fmt.Errorf("tracker: connect failed: %w", err)
		}
	}

	if err := t.transport.Subscribe(t.topic, constants.QoSAtLeastOnce, t.onMessage); err != nil {
		return fmt.Errorf("tracker: subscribe failed: %w", err)
	}
	return nil
}

// Stop tears the session down: unsubscribe, disconnect, ignore further
// messages. Safe to call more than once.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()

	if err := t.transport.Unsubscribe(t.topic); err != nil {
		logger.Warn("tracker unsubscribe failed", logger.Err(err))
	}
	t.transport.Disconnect()
}

// onMessage decodes one sample. A malformed message is logged and dropped;
// the stream continues. Delivery order is best-effort, so the consumer just
// takes the latest sample rather than assuming monotonic timestamps.
func (t *Tracker) onMessage(topic string, payload []byte) {
	var sample models.PositionSample
	if err := json.Unmarshal(payload, &sample); err != nil {
		logger.Warn("dropping malformed location message",
			logger.String("topic", topic),
			logger.Err(err))
		return
	}

	sample.SpeedMPS = utils.SanitizeReading(sample.SpeedMPS)
	sample.Bearing = utils.SanitizeReading(sample.Bearing)

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.last = &sample
	t.updatedAt = time.Now()
	needRoute := t.needRouteRefreshLocked(sample.Location())
	target := t.target.Location
	t.mu.Unlock()

	if t.repo != nil {
		if err := t.repo.StoreSample(context.Background(), sample); err != nil {
			logger.Debug("failed to cache driver position", logger.Err(err))
		}
	}

	if needRoute {
		t.refreshRoute(sample.Location(), target)
	}
}

// HandlePickupEvent switches the active target when a booking's pickup
// status changes. A session has exactly one active target at a time.
func (t *Tracker) HandlePickupEvent(ev models.PickupEvent) {
	if ev.DriverID != t.driverID {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Status {
	case models.BookingPickedUp:
		switch {
		case ev.NextPickup != nil:
			t.target = models.TrackingTarget{
				Kind:     models.TargetNextPickup,
				Location: *ev.NextPickup,
			}
		case ev.Destination != (models.GeoLocation{}):
			t.target = models.TrackingTarget{
				Kind:     models.TargetDestination,
				Location: ev.Destination,
			}
		default:
			// Event without a destination: the session's own applies
			t.target = models.TrackingTarget{
				Kind:     models.TargetDestination,
				Location: t.destination,
			}
		}
	case models.BookingDroppedOff:
		t.target = models.TrackingTarget{
			Kind:     models.TargetDestination,
			Location: t.destination,
		}
	}

	// Force a route re-fetch against the new target on the next sample
	t.routeAt = nil
}

// State returns a snapshot for rendering
func (t *Tracker) State() models.TrackingState {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := models.TrackingState{
		DriverID:  t.driverID,
		Target:    t.target,
		ETA:       utils.ETAIndeterminate,
		UpdatedAt: t.updatedAt,
	}

	if t.route != nil {
		state.Route = t.route.Points
	}

	if t.last == nil {
		return state
	}

	loc := t.last.Location()
	state.Position = &loc
	state.SpeedMPS = t.last.SpeedMPS

	if t.last.SpeedMPS > epsilonSpeedMPS {
		distanceM := utils.DistanceMeters(loc, t.target.Location)
		etaSeconds := int64(distanceM / t.last.SpeedMPS)
		state.ETASeconds = &etaSeconds
		state.ETA = utils.FormatETA(time.Duration(etaSeconds) * time.Second)
	}

	if state.Route == nil {
		// No route yet: straight line between driver and target
		state.Route = []models.GeoLocation{loc, t.target.Location}
	}

	return state
}

// needRouteRefreshLocked reports whether the driver moved far enough since
// the last fetch to justify another directions call
func (t *Tracker) needRouteRefreshLocked(pos models.GeoLocation) bool {
	if t.routeAt == nil {
		return true
	}
	return utils.DistanceMeters(*t.routeAt, pos) > t.tuning.RouteRefreshM
}

func (t *Tracker) refreshRoute(pos, target models.GeoLocation) {
	ctx, cancel := context.WithTimeout(context.Background(), routeFetchTimeout)
	defer cancel()

	route, err := t.routes.GetRoute(ctx, pos, target)
	if err != nil {
		logger.Warn("route fetch failed, using straight-line fallback",
			logger.String("driver_id", t.driverID),
			logger.Err(err))
		route = directions.Estimate(pos, target)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.route = route
	t.routeAt = &pos
}
