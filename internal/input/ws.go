package input

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// triggerFrame is one state update from the headset companion app
type triggerFrame struct {
	Trigger bool `json:"trigger"`
}

// HeadsetSource receives the VR controller trigger state over a websocket
// from the headset. The connection is kept alive by a reconnect loop;
// while disconnected the source reports unavailable.
type HeadsetSource struct {
	url string
	log zerolog.Logger

	mu        sync.Mutex
	pressed   bool
	connected bool
}

func NewHeadsetSource(url string, log zerolog.Logger) *HeadsetSource {
	return &HeadsetSource{url: url, log: log}
}

func (h *HeadsetSource) Available() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}

func (h *HeadsetSource) Pressed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pressed
}

// Run dials the headset and consumes trigger frames until ctx is done,
// reconnecting with a fixed backoff on any failure.
func (h *HeadsetSource) Run(ctx context.Context) {
	const backoff = time.Second

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, h.url, nil)
		if err != nil {
			h.log.Warn().Err(err).Str("url", h.url).Msg("Headset connection failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}

		h.log.Info().Str("url", h.url).Msg("Connected to headset")
		h.setConnected(true)

		h.readFrames(ctx, conn)

		h.setConnected(false)
		conn.Close()
		h.log.Warn().Msg("Headset disconnected")
	}
}

func (h *HeadsetSource) readFrames(ctx context.Context, conn *websocket.Conn) {
	// Unblock ReadMessage when ctx is cancelled
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame triggerFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			h.log.Warn().Err(err).Msg("Malformed trigger frame")
			continue
		}

		h.mu.Lock()
		h.pressed = frame.Trigger
		h.mu.Unlock()
	}
}

func (h *HeadsetSource) setConnected(v bool) {
	h.mu.Lock()
	h.connected = v
	h.mu.Unlock()
}
