// Package capture implements the press-and-hold voice capture controller:
// a two-state machine driven by a polled trigger, with a minimum-duration
// gate for accidental taps and a maximum-duration auto-commit.
package capture

import "time"

type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	default:
		return "unknown"
	}
}

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetIdle()
	SetRecording()
	SetError()
}

// Settings is the immutable numeric policy for one controller.
type Settings struct {
	// SampleRate of the capture device, Hz. Must be > 0.
	SampleRate int
	// MaxDurationSeconds is the hard ceiling on a single capture. Must be > 0.
	MaxDurationSeconds float64
	// MinValidDurationSeconds gates accidental taps; captures strictly
	// shorter than this are discarded. Must be >= 0 and < max.
	MinValidDurationSeconds float64
	// PollInterval between trigger polls. Defaults to ~11ms (90Hz).
	PollInterval time.Duration
}

func (s Settings) maxDuration() time.Duration {
	return time.Duration(s.MaxDurationSeconds * float64(time.Second))
}

func (s Settings) pollInterval() time.Duration {
	if s.PollInterval > 0 {
		return s.PollInterval
	}
	return 11 * time.Millisecond
}
