package input

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// fakeHeadset serves trigger frames over a websocket
type fakeHeadset struct {
	srv    *httptest.Server
	frames chan bool
}

func newFakeHeadset(t *testing.T) *fakeHeadset {
	t.Helper()
	f := &fakeHeadset{frames: make(chan bool, 16)}
	upgrader := websocket.Upgrader{}

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for pressed := range f.frames {
			if pressed {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"trigger": true}`)); err != nil {
					return
				}
			} else {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"trigger": false}`)); err != nil {
					return
				}
			}
		}
	}))
	return f
}

func (f *fakeHeadset) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestHeadsetSourceDeliversTriggerState(t *testing.T) {
	headset := newFakeHeadset(t)
	defer headset.srv.Close()

	src := NewHeadsetSource(headset.url(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go src.Run(ctx)

	waitFor(t, src.Available, "source never became available")

	if src.Pressed() {
		t.Error("trigger should start released")
	}

	headset.frames <- true
	waitFor(t, src.Pressed, "press never observed")

	headset.frames <- false
	waitFor(t, func() bool { return !src.Pressed() }, "release never observed")
}

func TestHeadsetSourceUnavailableWhenDisconnected(t *testing.T) {
	headset := newFakeHeadset(t)

	src := NewHeadsetSource(headset.url(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go src.Run(ctx)

	waitFor(t, src.Available, "source never became available")

	headset.frames <- true
	waitFor(t, src.Pressed, "press never observed")

	// Drop the server: the source must flag unavailable, not crash
	close(headset.frames)
	headset.srv.Close()
	waitFor(t, func() bool { return !src.Available() }, "source never became unavailable")
}

func TestHeadsetSourceStartsUnavailable(t *testing.T) {
	src := NewHeadsetSource("ws://127.0.0.1:1/trigger", zerolog.Nop())
	if src.Available() {
		t.Error("source should be unavailable before Run connects")
	}
}
