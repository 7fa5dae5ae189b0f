package subscriber

import (
	"errors"
	"sync"

	"github.com/unipool/unipool/internal/pkg/models"
)

var (
	// ErrSessionExists is returned when a tracker for the driver already runs
	ErrSessionExists = errors.New("subscriber: tracking session already active")
	// ErrSessionNotFound is returned for lookups of unknown sessions
	ErrSessionNotFound = errors.New("subscriber: tracking session not found")
)

// TrackerFactory builds a session for one driver. Split out so tests can
// substitute trackers with fake transports.
type TrackerFactory func(driverID string, pickup, destination models.GeoLocation) *Tracker

// Manager owns the active tracking sessions, one per tracked driver
type Manager struct {
	factory TrackerFactory

	mu       sync.Mutex
	sessions map[string]*Tracker
}

// NewManager creates a session manager around a tracker factory
func NewManager(factory TrackerFactory) *Manager {
	return &Manager{
		factory:  factory,
		sessions: make(map[string]*Tracker),
	}
}

// StartSession opens a tracking session for a driver and subscribes it.
// Tracking never starts implicitly; this is the explicit entry point.
func (m *Manager) StartSession(driverID string, pickup, destination models.GeoLocation) (*Tracker, error) {
	m.mu.Lock()
	if _, ok := m.sessions[driverID]; ok {
		m.mu.Unlock()
		return nil, ErrSessionExists
	}
	tracker := m.factory(driverID, pickup, destination)
	m.sessions[driverID] = tracker
	m.mu.Unlock()

	if err := tracker.Start(); err != nil {
		m.mu.Lock()
		delete(m.sessions, driverID)
		m.mu.Unlock()
		return nil, err
	}
	return tracker, nil
}

// StopSession tears a driver's session down. Stopping a session that does not
// exist is not an error; every exit path of the tracking screen calls this.
func (m *Manager) StopSession(driverID string) {
	m.mu.Lock()
	tracker, ok := m.sessions[driverID]
	delete(m.sessions, driverID)
	m.mu.Unlock()

	if ok {
		tracker.Stop()
	}
}

// State returns the snapshot of a driver's session
func (m *Manager) State(driverID string) (models.TrackingState, error) {
	m.mu.Lock()
	tracker, ok := m.sessions[driverID]
	m.mu.Unlock()

	if !ok {
		return models.TrackingState{}, ErrSessionNotFound
	}
	return tracker.State(), nil
}

// HandlePickupEvent fans a pickup-status change out to the driver's session
func (m *Manager) HandlePickupEvent(ev models.PickupEvent) {
	m.mu.Lock()
	tracker, ok := m.sessions[ev.DriverID]
	m.mu.Unlock()

	if ok {
		tracker.HandlePickupEvent(ev)
	}
}

// StopAll closes every active session, used on shutdown
func (m *Manager) StopAll() {
	m.mu.Lock()
	trackers := make([]*Tracker, 0, len(m.sessions))
	for _, tracker := range m.sessions {
		trackers = append(trackers, tracker)
	}
	m.sessions = make(map[string]*Tracker)
	m.mu.Unlock()

	for _, tracker := range trackers {
		tracker.Stop()
	}
}
