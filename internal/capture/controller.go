package capture

import (
	"context"
	"sync"
	"time"

	"github.com/Desoky231/Ramses-VR/internal/audio"
	"github.com/Desoky231/Ramses-VR/internal/backend"
	"github.com/Desoky231/Ramses-VR/internal/input"
	"github.com/rs/zerolog"
)

type Config struct {
	Device   audio.Device
	Sender   backend.Sender
	Source   input.Source
	Settings Settings
	Logger   zerolog.Logger
	Status   StatusUpdater // Optional - can be nil
}

// Controller owns one capture session at a time. All transitions run under
// a single mutex; the max-duration timer callback takes the same mutex, so
// exactly one of {manual stop, timer fire} commits a given session.
type Controller struct {
	device audio.Device
	sender backend.Sender
	source input.Source
	set    Settings
	log    zerolog.Logger
	status StatusUpdater

	mu          sync.Mutex
	state       State
	lastPressed bool
	stream      audio.Stream
	startedAt   time.Time
	timer       *time.Timer
	gen         uint64
}

func New(cfg Config) *Controller {
	return &Controller{
		device: cfg.Device,
		sender: cfg.Sender,
		source: cfg.Source,
		set:    cfg.Settings,
		log:    cfg.Logger,
		status: cfg.Status,
	}
}

// State returns the current state snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run polls the trigger until ctx is done. A session still open at
// shutdown is stopped through the normal commit path.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.set.pollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Shutdown()
			return
		case <-ticker.C:
			c.Poll()
		}
	}
}

// Poll reads the trigger once and applies any press/release edge. It is
// the only input path; the source delivers levels, not edges, so the edge
// is computed against the last observed value. An unavailable source
// freezes the controller in place until the next available poll.
func (c *Controller) Poll() {
	if !c.source.Available() {
		return
	}
	pressed := c.source.Pressed()

	c.mu.Lock()
	defer c.mu.Unlock()

	was := c.lastPressed
	c.lastPressed = pressed

	switch {
	case pressed && !was:
		c.startLocked()
	case !pressed && was:
		c.stopLocked()
	}
}

// Shutdown commits any in-flight session.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) startLocked() {
	if c.state != StateIdle {
		return
	}

	stream, err := c.device.Start(c.set.SampleRate, c.set.maxDuration())
	if err != nil {
		// Capture start failure is non-fatal: log and stay idle.
		c.log.Error().Err(err).Msg("Failed to start capture device")
		if c.status != nil {
			c.status.SetError()
		}
		return
	}

	c.stream = stream
	c.startedAt = time.Now()
	c.state = StateRecording
	c.gen++

	gen := c.gen
	c.timer = time.AfterFunc(c.set.maxDuration(), func() {
		c.onTimeout(gen)
	})

	if c.status != nil {
		c.status.SetRecording()
	}
	c.log.Debug().Int("sample_rate", c.set.SampleRate).Msg("Recording started")
}

func (c *Controller) stopLocked() {
	if c.state != StateRecording {
		return
	}

	// Cancel before commit: once Stop returns, the armed callback either
	// never fires or exits on the stale generation check below.
	c.timer.Stop()
	c.timer = nil

	c.commitLocked(false)
}

func (c *Controller) onTimeout(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording || c.gen != gen {
		// Lost the race with a manual stop.
		return
	}
	c.timer = nil
	c.commitLocked(true)
}

// commitLocked finalizes the session: stop the device, trim, apply the
// duration gate, and hand the buffer off. Runs exactly once per session.
func (c *Controller) commitLocked(timedOut bool) {
	stream := c.stream
	c.stream = nil
	c.state = StateIdle

	captured := stream.Samples()
	buf := stream.Stop()

	elapsed := float64(len(buf)) / float64(c.set.SampleRate)
	if timedOut {
		// Hit the ceiling: treated as a full-length capture, never short.
		elapsed = c.set.MaxDurationSeconds
	}

	if c.status != nil {
		c.status.SetIdle()
	}

	if !timedOut && elapsed < c.set.MinValidDurationSeconds {
		c.log.Debug().
			Float64("elapsed", elapsed).
			Float64("min_valid", c.set.MinValidDurationSeconds).
			Int("samples", captured).
			Msg("Discarded short capture")
		return
	}

	c.log.Info().
		Float64("elapsed", elapsed).
		Int("samples", len(buf)).
		Bool("timed_out", timedOut).
		Dur("held", time.Since(c.startedAt)).
		Msg("Capture committed")

	// Ownership of buf transfers to the sender here.
	c.sender.Submit(backend.Clip{
		Samples:    buf,
		SampleRate: c.set.SampleRate,
		Duration:   elapsed,
	})
}
