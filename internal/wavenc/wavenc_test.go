package wavenc

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-audio/wav"
)

func TestEncodeProducesDecodableWAV(t *testing.T) {
	const sampleRate = 16000
	samples := make([]float32, sampleRate/2) // 0.5s
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate))
	}

	data, err := Encode(samples, sampleRate)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if string(data[:4]) != "RIFF" {
		t.Fatalf("expected RIFF header, got %q", data[:4])
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("decoder rejected encoded file")
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(pcm.Data) != len(samples) {
		t.Errorf("expected %d samples, got %d", len(samples), len(pcm.Data))
	}
	if pcm.Format.NumChannels != 1 {
		t.Errorf("expected mono, got %d channels", pcm.Format.NumChannels)
	}
	if pcm.Format.SampleRate != sampleRate {
		t.Errorf("expected sample rate %d, got %d", sampleRate, pcm.Format.SampleRate)
	}
}

func TestEncodeClampsOverdrive(t *testing.T) {
	data, err := Encode([]float32{1.5, -1.5, 0}, 8000)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if pcm.Data[0] != 32767 {
		t.Errorf("expected positive clamp to 32767, got %d", pcm.Data[0])
	}
	if pcm.Data[1] != -32768 {
		t.Errorf("expected negative clamp to -32768, got %d", pcm.Data[1])
	}
	if pcm.Data[2] != 0 {
		t.Errorf("expected silence to stay 0, got %d", pcm.Data[2])
	}
}

func TestEncodeRejectsBadRate(t *testing.T) {
	if _, err := Encode([]float32{0}, 0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}
