package sampler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/unipool/unipool/internal/pkg/logger"
	"github.com/unipool/unipool/internal/pkg/models"
	"github.com/unipool/unipool/internal/utils"
)

var (
	// ErrPermissionDenied is terminal for a sampling attempt; the sampler
	// never re-prompts a user who denied permanently
	ErrPermissionDenied = errors.New("sampler: positioning permission denied")
	// ErrServiceDisabled is returned when device positioning is switched off
	ErrServiceDisabled = errors.New("sampler: positioning service disabled")
	// ErrAlreadyStarted guards the non-restartable sample stream
	ErrAlreadyStarted = errors.New("sampler: already started")
)

// PermissionStatus is the positioning permission state reported by a Source
type PermissionStatus int

const (
	PermissionGranted PermissionStatus = iota
	PermissionDenied
	PermissionDeniedForever
)

// Source abstracts the device positioning API
type Source interface {
	// CheckPermission reports the current permission state without prompting
	CheckPermission(ctx context.Context) (PermissionStatus, error)
	// RequestPermission prompts the user and reports the resulting state
	RequestPermission(ctx context.Context) (PermissionStatus, error)
	// ServiceEnabled reports whether device positioning is switched on
	ServiceEnabled(ctx context.Context) (bool, error)
	// Positions streams movement-driven readings until ctx is done
	Positions(ctx context.Context) (<-chan models.PositionSample, error)
	// Current reads a single position on demand
	Current(ctx context.Context) (models.PositionSample, error)
}

// Options tunes the emit triggers
type Options struct {
	// DistanceThresholdM emits when the device moved at least this far
	DistanceThresholdM float64
	// TimeCeiling emits when this much time passed since the last emit,
	// even without significant movement
	TimeCeiling time.Duration
	// PollInterval is the safety-net poll of Current
	PollInterval time.Duration
}

// FromConfig builds Options from the tracking configuration
func FromConfig(cfg models.TrackingConfig) Options {
	return Options{
		DistanceThresholdM: cfg.DistanceThresholdM,
		TimeCeiling:        time.Duration(cfg.TimeCeilingSeconds) * time.Second,
		PollInterval:       time.Duration(cfg.PollSeconds) * time.Second,
	}
}

// Sampler turns a positioning Source into a lazy, infinite, non-restartable
// sequence of Position Samples. A sample is emitted when the device moved
// past the distance threshold, the time ceiling elapsed, or the safety-net
// poll fired, whichever comes first.
type Sampler struct {
	src  Source
	opts Options

	mu      sync.Mutex
	started bool
}

// New creates a sampler over a positioning source
func New(src Source, opts Options) *Sampler {
	if opts.DistanceThresholdM <= 0 {
		opts.DistanceThresholdM = 10
	}
	if opts.TimeCeiling <= 0 {
		opts.TimeCeiling = 5 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 15 * time.Second
	}
	return &Sampler{src: src, opts: opts}
}

// Samples acquires positioning permission and starts the stream. The channel
// closes when ctx is done. The sequence is not restartable; a second call
// fails.
func (s *Sampler) Samples(ctx context.Context) (<-chan models.PositionSample, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	enabled, err := s.src.ServiceEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrServiceDisabled
	}

	status, err := s.src.CheckPermission(ctx)
	if err != nil {
		return nil, err
	}
	switch status {
	case PermissionDeniedForever:
		// Never prompt again
		return nil, ErrPermissionDenied
	case PermissionDenied:
		status, err = s.src.RequestPermission(ctx)
		if err != nil {
			return nil, err
		}
		if status != PermissionGranted {
			return nil, ErrPermissionDenied
		}
	}

	positions, err := s.src.Positions(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan models.PositionSample, 1)
	go s.run(ctx, positions, out)
	return out, nil
}

func (s *Sampler) run(ctx context.Context, positions <-chan models.PositionSample, out chan<- models.PositionSample) {
	defer close(out)

	poll := time.NewTicker(s.opts.PollInterval)
	defer poll.Stop()

	var lastEmit *models.PositionSample
	var lastEmitAt time.Time

	emit := func(sample models.PositionSample) {
		sample.SpeedMPS = utils.SanitizeReading(sample.SpeedMPS)
		sample.Bearing = utils.SanitizeReading(sample.Bearing)
		if sample.TimestampMS == 0 {
			sample.TimestampMS = time.Now().UnixMilli()
		}

		select {
		case out <- sample:
		case <-ctx.Done():
			return
		}
		lastEmit = &sample
		lastEmitAt = time.Now()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case sample, ok := <-positions:
			if !ok {
				return
			}
			if s.shouldEmit(lastEmit, lastEmitAt, sample) {
				emit(sample)
			}

		case <-poll.C:
			sample, err := s.src.Current(ctx)
			if err != nil {
				// No fix yet; the next trigger will try again
				logger.Debug("sampler poll failed", logger.Err(err))
				continue
			}
			emit(sample)
		}
	}
}

func (s *Sampler) shouldEmit(lastEmit *models.PositionSample, lastEmitAt time.Time, sample models.PositionSample) bool {
	if lastEmit == nil {
		return true
	}
	if utils.DistanceMeters(lastEmit.Location(), sample.Location()) >= s.opts.DistanceThresholdM {
		return true
	}
	return time.Since(lastEmitAt) >= s.opts.TimeCeiling
}
