package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shiftwise/shiftwise-backend-go/internal/domain/connectivity"
)

const (
	DefaultSampleInterval   = 30 * time.Second
	DefaultPositionInterval = 60 * time.Second
	DefaultPositionTimeout  = 10 * time.Second
)

// ObservationSink receives the observations a sampler produces. Submission is
// fire-and-forget: a sink failure must never block the next sampling cycle.
type ObservationSink interface {
	Submit(ctx context.Context, obs connectivity.Observation)
}

type SamplerConfig struct {
	UserID           string
	SampleInterval   time.Duration
	PositionInterval time.Duration
	PositionTimeout  time.Duration
}

func (c *SamplerConfig) applyDefaults() {
	if c.SampleInterval <= 0 {
		c.SampleInterval = DefaultSampleInterval
	}
	if c.PositionInterval <= 0 {
		c.PositionInterval = DefaultPositionInterval
	}
	if c.PositionTimeout <= 0 {
		c.PositionTimeout = DefaultPositionTimeout
	}
}

// Sampler periodically reads the platform's connectivity sensor and forwards
// observations to a sink. Position fixes are attached only while connected and
// at a slower cadence than the wifi reads, since geolocation is the expensive
// sensor. Identical consecutive signals are deduplicated.
type Sampler struct {
	sensors PlatformSensors
	sink    ObservationSink
	cfg     SamplerConfig

	mu             sync.Mutex
	running        bool
	stop           chan struct{}
	done           chan struct{}
	lastSignal     *connectivity.Observation
	lastPositionAt time.Time
}

func NewSampler(sensors PlatformSensors, sink ObservationSink, cfg SamplerConfig) *Sampler {
	cfg.applyDefaults()
	return &Sampler{
		sensors: sensors,
		sink:    sink,
		cfg:     cfg,
	}
}

// Start begins the sampling loop. Returns an error when already running.
func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("sampler already running")
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(ctx, s.stop, s.done)
	slog.Info("Connectivity sampler started",
		"user_id", s.cfg.UserID, "interval", s.cfg.SampleInterval)
	return nil
}

// Stop terminates the sampling loop and waits for the in-flight cycle.
// Safe to call when not running.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
	slog.Info("Connectivity sampler stopped", "user_id", s.cfg.UserID)
}

func (s *Sampler) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.SampleInterval)
	defer ticker.Stop()

	s.sample(ctx)
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

// sample runs one cycle: read connectivity, maybe attach a position fix,
// dedupe, submit.
func (s *Sampler) sample(ctx context.Context) {
	reading, err := s.sensors.Connectivity(ctx)
	if err != nil {
		// An unavailable sensor says nothing about the network. Skip the
		// cycle rather than fabricate a disconnect.
		if errors.Is(err, connectivity.ErrSensorUnavailable) {
			slog.Warn("Connectivity sensor unavailable, skipping cycle", "user_id", s.cfg.UserID)
		} else {
			slog.Error("Failed to read connectivity sensor", "user_id", s.cfg.UserID, "error", err)
		}
		return
	}

	obs := connectivity.Observation{
		UserID:     s.cfg.UserID,
		SSID:       reading.SSID,
		Connected:  reading.Connected,
		ObservedAt: time.Now().UTC(),
	}

	if reading.Connected && time.Since(s.lastPositionAt) >= s.cfg.PositionInterval {
		if pos, ok := s.position(ctx); ok {
			obs.Latitude = &pos.Latitude
			obs.Longitude = &pos.Longitude
			s.lastPositionAt = time.Now()
		}
	}

	if s.lastSignal != nil && s.lastSignal.SameSignal(obs) && obs.Latitude == nil {
		return
	}
	s.lastSignal = &obs

	s.sink.Submit(ctx, obs)
}

func (s *Sampler) position(ctx context.Context) (connectivity.Position, bool) {
	posCtx, cancel := context.WithTimeout(ctx, s.cfg.PositionTimeout)
	defer cancel()

	pos, err := s.sensors.Position(posCtx)
	if err != nil {
		if errors.Is(err, connectivity.ErrSensorUnavailable) {
			slog.Warn("Position sensor unavailable", "user_id", s.cfg.UserID)
		} else {
			slog.Error("Failed to read position sensor", "user_id", s.cfg.UserID, "error", err)
		}
		return connectivity.Position{}, false
	}
	return pos, true
}
