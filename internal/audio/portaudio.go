package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

type portAudioDevice struct {
	mu       sync.Mutex
	deviceID string
}

// New creates a new PortAudio-based capture device
func New(deviceID string) (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioDevice{deviceID: deviceID}, nil
}

// SetDevice changes the input device used by subsequent Start calls
func (p *portAudioDevice) SetDevice(id string) {
	p.mu.Lock()
	p.deviceID = id
	p.mu.Unlock()
}

func (p *portAudioDevice) Start(sampleRate int, maxDuration time.Duration) (Stream, error) {
	p.mu.Lock()
	deviceID := p.deviceID
	p.mu.Unlock()

	// Find device
	var device *portaudio.DeviceInfo
	if deviceID == "" {
		var err error
		device, err = portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate devices: %w", err)
		}
		for _, d := range devices {
			if d.Name == deviceID {
				device = d
				break
			}
		}
	}

	if device == nil {
		return nil, fmt.Errorf("device not found: %s", deviceID)
	}
	if device.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device has no input channels: %s", device.Name)
	}

	// Prefer mono; some devices only expose stereo, so downmix in that case
	channels := 1
	if device.MaxInputChannels >= 2 && !supportsMono(device, sampleRate) {
		channels = 2
	}

	const framesPerBuffer = 512
	frame := make([]float32, framesPerBuffer*channels)

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: framesPerBuffer,
	}, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	maxSamples := int(maxDuration.Seconds() * float64(sampleRate))
	s := &portAudioStream{
		stream:     stream,
		frame:      frame,
		channels:   channels,
		maxSamples: maxSamples,
		samples:    make([]float32, 0, maxSamples),
		done:       make(chan struct{}),
		finished:   make(chan struct{}),
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}

	go s.readLoop()
	return s, nil
}

// supportsMono probes whether a 1-channel stream at the given rate is valid
func supportsMono(device *portaudio.DeviceInfo, sampleRate int) bool {
	err := portaudio.IsFormatSupported(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: 512,
	}, make([]float32, 512))
	return err == nil
}

func (p *portAudioDevice) ListDevices() ([]AudioDevice, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]AudioDevice, 0, len(devices))
	defaultDevice, _ := portaudio.DefaultInputDevice()

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, AudioDevice{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}

	return result, nil
}

func (p *portAudioDevice) Close() error {
	portaudio.Terminate()
	return nil
}

// ===== STREAM =====

type portAudioStream struct {
	stream     *portaudio.Stream
	frame      []float32
	channels   int
	maxSamples int

	mu      sync.Mutex
	samples []float32

	done     chan struct{}
	stopOnce sync.Once
	finished chan struct{}
}

func (s *portAudioStream) readLoop() {
	defer close(s.finished)
	defer s.stream.Close()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		if err := s.stream.Read(); err != nil {
			// Stop() aborts a blocked Read; either way the stream is over
			return
		}

		frames := len(s.frame) / s.channels
		mono := downmixInterleaved(s.frame, s.channels, frames)

		s.mu.Lock()
		room := s.maxSamples - len(s.samples)
		if room > 0 {
			if len(mono) > room {
				mono = mono[:room]
			}
			s.samples = append(s.samples, mono...)
		}
		s.mu.Unlock()
	}
}

func (s *portAudioStream) Samples() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

func (s *portAudioStream) Stop() []float32 {
	s.stopOnce.Do(func() {
		close(s.done)
		s.stream.Stop() // unblocks a pending Read
		<-s.finished    // reader owns stream.Close
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.samples[:len(s.samples):len(s.samples)]
}

// downmixInterleaved averages interleaved channels into a mono slice of
// the given frame count. Mono input is copied, never aliased.
func downmixInterleaved(in []float32, channels, frames int) []float32 {
	out := make([]float32, frames)
	if channels <= 1 {
		copy(out, in[:frames])
		return out
	}
	for i := 0; i < frames; i++ {
		sum := 0.0
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += float64(in[base+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}
