package backend

import "context"

// Clip is one committed capture. Ownership of Samples transfers to the
// sender on Submit; the producer must not touch it afterwards.
type Clip struct {
	Samples    []float32
	SampleRate int
	Duration   float64 // seconds
}

// Sender accepts committed clips. Submit is asynchronous and
// fire-and-forget; delivery failures are the sender's own concern.
type Sender interface {
	Submit(clip Clip)
}

// Reply is what the speech/LLM backend produced for one clip
type Reply struct {
	Transcript string
	ReplyText  string
	ReplyAudio []byte // encoded audio (mp3/wav), may be empty
}

// Transport performs one synchronous exchange with a backend
type Transport interface {
	Send(ctx context.Context, wav []byte, clip Clip) (Reply, error)
}

// Responder consumes backend replies (playback, clipboard, ...)
type Responder interface {
	Handle(reply Reply)
}

// Status is the sender-facing subset of status updates
type Status interface {
	SetSending()
	SetIdle()
	SetError()
}
