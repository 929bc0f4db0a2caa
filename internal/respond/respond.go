package respond

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	beepwav "github.com/faiface/beep/wav"
	"github.com/rs/zerolog"

	"github.com/Desoky231/Ramses-VR/internal/backend"
)

// Player handles backend replies on the desktop: speaks the reply audio
// through the default output and optionally copies the transcript to the
// clipboard. Never a correctness dependency; every failure is just logged.
type Player struct {
	log            zerolog.Logger
	playReply      bool
	copyTranscript bool
}

func New(log zerolog.Logger, playReply, copyTranscript bool) *Player {
	return &Player{
		log:            log,
		playReply:      playReply,
		copyTranscript: copyTranscript,
	}
}

func (p *Player) Handle(reply backend.Reply) {
	if p.copyTranscript && reply.Transcript != "" {
		if err := clipboard.WriteAll(reply.Transcript); err != nil {
			p.log.Warn().Err(err).Msg("Failed to copy transcript to clipboard")
		}
	}

	if p.playReply && len(reply.ReplyAudio) > 0 {
		if err := p.play(reply.ReplyAudio); err != nil {
			p.log.Error().Err(err).Msg("Failed to play reply audio")
		}
		return
	}

	if reply.ReplyText != "" {
		p.log.Info().Str("reply", reply.ReplyText).Msg("Reply (no audio)")
	}
}

func (p *Player) play(data []byte) error {
	streamer, format, err := decode(data)
	if err != nil {
		return err
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	done := make(chan bool)
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		done <- true
	})))
	<-done

	return nil
}

// decode sniffs the reply container: the backend sends MP3, but a WAV
// passthrough shows up when synthesis is disabled server-side.
func decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	if len(data) >= 4 && string(data[:4]) == "RIFF" {
		return beepwav.Decode(nopSeekCloser{bytes.NewReader(data)})
	}
	return mp3.Decode(io.NopCloser(bytes.NewReader(data)))
}

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }
