package backend

import (
	"context"
	"time"

	"github.com/Desoky231/Ramses-VR/internal/wavenc"
	"github.com/rs/zerolog"
)

// Service is the Sender implementation: a bounded queue in front of a
// single worker that packages each clip as WAV and pushes it through the
// transport. A full queue drops the clip rather than stall the poll loop.
type Service struct {
	log       zerolog.Logger
	transport Transport
	responder Responder
	status    Status // Optional - can be nil
	timeout   time.Duration

	queue chan Clip
}

type ServiceConfig struct {
	Transport Transport
	Responder Responder
	Status    Status
	Timeout   time.Duration
	Logger    zerolog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		log:       cfg.Logger,
		transport: cfg.Transport,
		responder: cfg.Responder,
		status:    cfg.Status,
		timeout:   timeout,
		queue:     make(chan Clip, 4),
	}
}

func (s *Service) Submit(clip Clip) {
	select {
	case s.queue <- clip:
	default:
		// Backend is behind; dropping beats blocking the capture loop
		s.log.Warn().Float64("duration", clip.Duration).Msg("Send queue full, dropping clip")
	}
}

// Run drains the queue until ctx is done
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case clip := <-s.queue:
			s.send(ctx, clip)
		}
	}
}

func (s *Service) send(ctx context.Context, clip Clip) {
	if s.status != nil {
		s.status.SetSending()
		defer s.status.SetIdle()
	}

	wav, err := wavenc.Encode(clip.Samples, clip.SampleRate)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode capture")
		if s.status != nil {
			s.status.SetError()
		}
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.transport.Send(sendCtx, wav, clip)
	if err != nil {
		s.log.Error().Err(err).Float64("duration", clip.Duration).Msg("Backend request failed")
		if s.status != nil {
			s.status.SetError()
		}
		return
	}

	s.log.Info().
		Str("transcript", reply.Transcript).
		Int("reply_audio_bytes", len(reply.ReplyAudio)).
		Msg("Backend reply")

	if s.responder != nil {
		s.responder.Handle(reply)
	}
}
