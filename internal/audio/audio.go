package audio

import "time"

// Device opens capture streams on the configured input device
type Device interface {
	// Start begins capturing mono float32 at sampleRate. maxDuration
	// bounds the buffer; samples past the ceiling are dropped.
	Start(sampleRate int, maxDuration time.Duration) (Stream, error)
	ListDevices() ([]AudioDevice, error)
	// SetDevice changes the input device for subsequent Start calls
	SetDevice(id string)
	Close() error
}

// Stream is one active capture session
type Stream interface {
	// Samples reports the number of samples captured so far
	Samples() int
	// Stop ends the capture and returns the buffer trimmed to exactly
	// the captured sample count. Must be called exactly once.
	Stop() []float32
}

// AudioDevice represents an audio input device
type AudioDevice struct {
	ID      string
	Name    string
	Default bool
}
